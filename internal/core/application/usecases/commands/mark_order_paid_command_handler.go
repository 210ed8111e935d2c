package commands

import (
	"context"
	"log/slog"

	"storefront/internal/core/domain/model/order"
)

// MarkOrderPaidCommandHandler moves an order from AwaitingPayment to Confirmed.
// Paying for an order that is already past AwaitingPayment changes nothing and
// is not an error; the duplicate is logged at debug level.
type MarkOrderPaidCommandHandler struct {
	store    OrderUpdater
	observer TransitionObserver
	logger   *slog.Logger
}

// NewMarkOrderPaidCommandHandler creates the handler. observer may be nil.
func NewMarkOrderPaidCommandHandler(
	store OrderUpdater, observer TransitionObserver, logger *slog.Logger,
) MarkOrderPaidCommandHandler {
	if observer == nil {
		observer = nopObserver{}
	}
	return MarkOrderPaidCommandHandler{
		store:    store,
		observer: observer,
		logger:   logger.With("component", "MarkOrderPaidCommandHandler"),
	}
}

// Handle applies the payment atomically and returns the stored snapshot.
// Unknown orders yield errs.ObjectNotFoundError.
func (h MarkOrderPaidCommandHandler) Handle(ctx context.Context, cmd MarkOrderPaidCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	var previous order.Status
	updated, err := h.store.Update(ctx, cmd.TrackingID(), func(current *order.Order) (*order.Order, error) {
		previous = current.Status()
		return current.MarkPaid()
	})
	if err != nil {
		return TransitionResult{}, err
	}

	result := TransitionResult{Order: updated, Previous: previous}
	if !result.Changed() {
		h.logger.DebugContext(ctx, "payment already recorded",
			"trackingId", cmd.TrackingID().String(), "status", updated.Status().String())
		return result, nil
	}

	h.logger.InfoContext(ctx, "order paid", "trackingId", cmd.TrackingID().String())
	h.observer.OrderTransitioned(ctx, cmd.TrackingID(), previous, updated.Status())
	return result, nil
}
