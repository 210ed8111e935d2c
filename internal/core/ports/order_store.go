// Package ports defines the contracts between the storefront core and its adapters.
// These interfaces establish dependency inversion: the application layer depends
// on them and the adapters under internal/adapters implement them.
package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderMutation computes the next snapshot of an order from its current one.
// Returning the current snapshot unchanged signals a no-op; returning an error
// aborts the update without writing anything.
type OrderMutation func(current *order.Order) (*order.Order, error)

// OrderStore is the single authority over canonical order records.
//
// Guarantees:
//   - Tracking ids are unique within a store instance
//   - Updates to the same tracking id are serialized; updates to different ids
//     never wait on each other
//   - Readers observe a snapshot either before or after an update, never a mix
//
// Errors:
//   - errs.ObjectNotFoundError when the tracking id is unknown
//   - errs.ObjectAlreadyExistsError when Create collides with an existing id
//   - errs.StorageError when the backing storage fails; it is never retried here
type OrderStore interface {
	// Create inserts a fully built order. Either the whole record becomes
	// visible or nothing does.
	Create(ctx context.Context, o *order.Order) error

	// Get returns the current snapshot of an order.
	Get(ctx context.Context, id kernel.TrackingID) (*order.Order, error)

	// Update applies mutate atomically to the current snapshot and stores the
	// result under the same key. It returns the stored snapshot.
	//
	// Example:
	//   paid, err := store.Update(ctx, id, func(o *order.Order) (*order.Order, error) {
	//       return o.MarkPaid()
	//   })
	Update(ctx context.Context, id kernel.TrackingID, mutate OrderMutation) (*order.Order, error)

	// ListAll returns every order, most recently created first.
	ListAll(ctx context.Context) ([]*order.Order, error)

	// Clear removes every order. Intended for test isolation.
	Clear(ctx context.Context) error
}
