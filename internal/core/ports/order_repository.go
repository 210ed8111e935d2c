package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderRepository is the transaction-bound persistence contract used by
// durable OrderStore implementations. Obtain it from a UnitOfWork so that all
// calls share one transaction.
type OrderRepository interface {
	// Add persists a new order with its line items.
	// Returns errs.ObjectAlreadyExistsError if the tracking id is taken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by tracking id.
	Get(ctx context.Context, id kernel.TrackingID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the transaction ends,
	// making the caller the single writer for that tracking id.
	GetForUpdate(ctx context.Context, id kernel.TrackingID) (*order.Order, error)

	// UpdateStatus persists the status of an existing order. Line items and
	// total are immutable and never rewritten.
	UpdateStatus(ctx context.Context, aggregate *order.Order) error

	// GetAll retrieves every order, most recently created first.
	GetAll(ctx context.Context) ([]*order.Order, error)

	// DeleteAll removes every order and its line items.
	DeleteAll(ctx context.Context) error
}
