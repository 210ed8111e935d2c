package postgres

import (
	"context"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

var _ ports.OrderStore = (*OrderStore)(nil)

// OrderStore is the durable ports.OrderStore. Writers for the same order are
// serialized by a row lock taken with SELECT ... FOR UPDATE; writers for
// different orders lock different rows and never wait on each other.
type OrderStore struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewOrderStore creates a store running every operation through units of work
// produced by uowFactory.
func NewOrderStore(uowFactory ports.UnitOfWorkFactory) *OrderStore {
	return &OrderStore{uowFactory: uowFactory}
}

// Create inserts header and line items in one transaction.
func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.NewStorageError("begin create order", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return errs.NewStorageError("commit create order", err)
	}
	return nil
}

// Get reads the committed snapshot.
func (s *OrderStore) Get(ctx context.Context, id kernel.TrackingID) (*order.Order, error) {
	return s.uowFactory.Create().OrderRepository().Get(ctx, id)
}

// Update locks the row, applies mutate and writes the new status back.
func (s *OrderStore) Update(ctx context.Context, id kernel.TrackingID, mutate ports.OrderMutation) (*order.Order, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.NewStorageError("begin update order", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	current, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

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

	if err = repo.UpdateStatus(ctx, next); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.NewStorageError("commit update order", err)
	}
	return next, nil
}

// ListAll returns every order, newest first.
func (s *OrderStore) ListAll(ctx context.Context) ([]*order.Order, error) {
	return s.uowFactory.Create().OrderRepository().GetAll(ctx)
}

// Clear deletes every order in one transaction.
func (s *OrderStore) Clear(ctx context.Context) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.NewStorageError("begin clear orders", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().DeleteAll(ctx); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return errs.NewStorageError("commit clear orders", err)
	}
	return nil
}
