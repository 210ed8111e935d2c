// Package commands contains business operations that modify order state.
// Implements the Command pattern for write operations in the CQRS architecture.
// Every command is built through a validating constructor and handled by a
// handler that talks to the order store through the narrow interfaces below.
package commands

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

type (
	// OrderCreator inserts new orders.
	OrderCreator interface {
		Create(ctx context.Context, o *order.Order) error
	}

	// OrderUpdater applies an atomic read-modify-write to one order.
	OrderUpdater interface {
		Update(ctx context.Context, id kernel.TrackingID, mutate ports.OrderMutation) (*order.Order, error)
	}

	// TrackingIDGenerator issues fresh tracking ids.
	TrackingIDGenerator interface {
		Next() (kernel.TrackingID, error)
	}

	// TransitionObserver is notified after a status change has been stored.
	// It is never called for no-op transitions.
	TransitionObserver interface {
		OrderTransitioned(ctx context.Context, id kernel.TrackingID, from, to order.Status)
	}
)

// TransitionResult is the outcome of a lifecycle command.
type TransitionResult struct {
	// Order is the stored snapshot after the command.
	Order *order.Order
	// Previous is the status the order had when the command read it.
	Previous order.Status
}

// Changed reports whether the command moved the order to a new status.
func (r TransitionResult) Changed() bool {
	return r.Order != nil && r.Order.Status() != r.Previous
}

type nopObserver struct{}

func (nopObserver) OrderTransitioned(context.Context, kernel.TrackingID, order.Status, order.Status) {}
