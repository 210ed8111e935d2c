package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// maxCreateAttempts bounds how often a colliding tracking id is regenerated.
const maxCreateAttempts = 3

// CreateOrderCommandHandler turns a checkout into a stored order awaiting payment.
// It generates the tracking id itself; the store rejects duplicates and the
// handler retries with a fresh id.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(store, kernel.NewTrackingIDGenerator(nil), time.Now, logger)
//	trackingID, err := handler.Handle(ctx, cmd)
type CreateOrderCommandHandler struct {
	store  OrderCreator
	ids    TrackingIDGenerator
	now    func() time.Time
	logger *slog.Logger
}

// NewCreateOrderCommandHandler creates the handler. A nil now defaults to time.Now.
func NewCreateOrderCommandHandler(
	store OrderCreator, ids TrackingIDGenerator, now func() time.Time, logger *slog.Logger,
) CreateOrderCommandHandler {
	if now == nil {
		now = time.Now
	}
	return CreateOrderCommandHandler{
		store:  store,
		ids:    ids,
		now:    now,
		logger: logger.With("component", "CreateOrderCommandHandler"),
	}
}

// Handle validates the checkout, creates the order and returns its tracking id.
// Invalid input yields an error wrapping order.ErrOrderIsInvalid; storage
// failures are returned as errs.StorageError.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.TrackingID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.TrackingID{}, err
	}

	createdAt := h.now()
	var lastErr error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id, err := h.ids.Next()
		if err != nil {
			return kernel.TrackingID{}, err
		}

		o, err := order.NewOrder(id, cmd.LineItems(), cmd.Total(), createdAt)
		if err != nil {
			return kernel.TrackingID{}, err
		}

		err = h.store.Create(ctx, o)
		if err == nil {
			h.logger.InfoContext(ctx, "order created",
				"trackingId", id.String(), "total", o.Total(), "lineItems", len(o.LineItems()))
			return id, nil
		}
		if !errors.Is(err, errs.ErrObjectAlreadyExists) {
			return kernel.TrackingID{}, err
		}

		h.logger.WarnContext(ctx, "tracking id collision, regenerating",
			"trackingId", id.String(), "attempt", attempt)
		lastErr = err
	}

	return kernel.TrackingID{}, lastErr
}
