package commands

import (
	"context"
	"log/slog"

	"storefront/internal/core/domain/model/order"
)

// AdvanceOrderCommandHandler moves an order one step forward:
// Confirmed -> InPreparation -> InTransit -> Delivered.
//
// Orders still awaiting payment and delivered orders are returned unchanged.
type AdvanceOrderCommandHandler struct {
	store    OrderUpdater
	observer TransitionObserver
	logger   *slog.Logger
}

// NewAdvanceOrderCommandHandler creates the handler. observer may be nil.
func NewAdvanceOrderCommandHandler(
	store OrderUpdater, observer TransitionObserver, logger *slog.Logger,
) AdvanceOrderCommandHandler {
	if observer == nil {
		observer = nopObserver{}
	}
	return AdvanceOrderCommandHandler{
		store:    store,
		observer: observer,
		logger:   logger.With("component", "AdvanceOrderCommandHandler"),
	}
}

// Handle advances the order atomically and returns the stored snapshot.
// Unknown orders yield errs.ObjectNotFoundError.
func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	var previous order.Status
	updated, err := h.store.Update(ctx, cmd.TrackingID(), func(current *order.Order) (*order.Order, error) {
		previous = current.Status()
		return current.Advance()
	})
	if err != nil {
		return TransitionResult{}, err
	}

	result := TransitionResult{Order: updated, Previous: previous}
	if !result.Changed() {
		h.logger.DebugContext(ctx, "order not advanced",
			"trackingId", cmd.TrackingID().String(), "status", updated.Status().String())
		return result, nil
	}

	h.logger.InfoContext(ctx, "order advanced",
		"trackingId", cmd.TrackingID().String(),
		"from", previous.String(),
		"to", updated.Status().String())
	h.observer.OrderTransitioned(ctx, cmd.TrackingID(), previous, updated.Status())
	return result, nil
}
