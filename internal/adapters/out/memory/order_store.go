// Package memory provides an in-process OrderStore for tests, demos and
// single-instance deployments.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

var _ ports.OrderStore = (*OrderStore)(nil)

// entry holds the canonical snapshot of one order. writeMu serializes writers
// for this key only; readers load the snapshot without locking.
type entry struct {
	writeMu sync.Mutex
	current atomic.Pointer[order.Order]
}

// OrderStore keeps orders in a map. The RWMutex guards the map structure,
// while each entry carries its own writer lock so that updates to different
// orders proceed in parallel.
type OrderStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewOrderStore creates an empty store.
func NewOrderStore() *OrderStore {
	return &OrderStore{entries: make(map[string]*entry)}
}

// Create inserts o unless its tracking id is already present.
func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}

	key := o.ID().String()
	e := &entry{}
	e.current.Store(o)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; exists {
		return errs.NewObjectAlreadyExistsError("order", key)
	}
	s.entries[key] = e
	return nil
}

// Get returns the current snapshot of an order.
func (s *OrderStore) Get(ctx context.Context, id kernel.TrackingID) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.current.Load(), nil
}

// Update runs mutate under the order's writer lock and publishes the result.
func (s *OrderStore) Update(ctx context.Context, id kernel.TrackingID, mutate ports.OrderMutation) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	// Clear may have dropped the entry while this writer waited.
	if !s.holds(id, e) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	current := e.current.Load()
	next, err := mutate(current)
	if err != nil {
		return nil, err
	}
	if next == current {
		return current, nil
	}
	if err = next.Validate(); err != nil {
		return nil, err
	}
	if !next.IsEqual(current) {
		return nil, errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("mutation changed tracking id from %s to %s", current.ID(), next.ID()))
	}

	e.current.Store(next)
	return next, nil
}

// ListAll returns every snapshot, newest first. Orders created in the same
// instant are ordered by tracking id, descending.
func (s *OrderStore) ListAll(ctx context.Context) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	orders := make([]*order.Order, 0, len(s.entries))
	for _, e := range s.entries {
		orders = append(orders, e.current.Load())
	}
	s.mu.RUnlock()

	slices.SortFunc(orders, func(a, b *order.Order) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(b.ID().String(), a.ID().String())
	})
	return orders, nil
}

// Clear drops every order.
func (s *OrderStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = make(map[string]*entry)
	s.mu.Unlock()
	return nil
}

func (s *OrderStore) lookup(id kernel.TrackingID) (*entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.entries[id.String()]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return e, nil
}

func (s *OrderStore) holds(id kernel.TrackingID, e *entry) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[id.String()] == e
}
