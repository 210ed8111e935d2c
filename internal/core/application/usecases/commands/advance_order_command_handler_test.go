package commands_test

import (
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdvanceOrderCommand(t *testing.T) {
	t.Run("should reject zero tracking id", func(t *testing.T) {
		_, err := commands.NewAdvanceOrderCommand(kernel.TrackingID{})

		require.ErrorIs(t, err, kernel.ErrTrackingIDIsNotConstructed)
	})

	t.Run("should keep tracking id", func(t *testing.T) {
		id := trackingID(t, "MS-ADV")

		cmd, err := commands.NewAdvanceOrderCommand(id)

		require.NoError(t, err)
		assert.True(t, cmd.TrackingID().IsEqual(id))
	})
}

func TestAdvanceOrderCommandHandler_Handle(t *testing.T) {
	id := trackingID(t, "MS-ADV")

	testCases := []struct {
		name    string
		from    order.Status
		to      order.Status
		changed bool
	}{
		{"should hold orders awaiting payment", order.AwaitingPayment, order.AwaitingPayment, false},
		{"should move confirmed to preparation", order.Confirmed, order.InPreparation, true},
		{"should move preparation to transit", order.InPreparation, order.InTransit, true},
		{"should move transit to delivered", order.InTransit, order.Delivered, true},
		{"should keep delivered terminal", order.Delivered, order.Delivered, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			store := new(MockOrderStore)
			store.On("Update", ctx, id).Return(orderIn(t, id, tc.from), nil).Once()
			observer := new(MockTransitionObserver)
			if tc.changed {
				observer.On("OrderTransitioned", ctx, id, tc.from, tc.to).Once()
			}

			cmd, _ := commands.NewAdvanceOrderCommand(id)
			h := commands.NewAdvanceOrderCommandHandler(store, observer, discardLogger())
			result, err := h.Handle(ctx, cmd)

			require.NoError(t, err)
			assert.Equal(t, tc.to, result.Order.Status())
			assert.Equal(t, tc.changed, result.Changed())
			observer.AssertExpectations(t)
		})
	}

	t.Run("should report unknown order as not found", func(t *testing.T) {
		ctx := t.Context()
		unknown := trackingID(t, "MS-DOES-NOT-EXIST")
		store := new(MockOrderStore)
		store.On("Update", ctx, unknown).
			Return(nil, errs.NewObjectNotFoundError("order", unknown.String())).Once()
		observer := new(MockTransitionObserver)

		cmd, _ := commands.NewAdvanceOrderCommand(unknown)
		h := commands.NewAdvanceOrderCommandHandler(store, observer, discardLogger())
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		observer.AssertNotCalled(t, "OrderTransitioned")
		store.AssertExpectations(t)
	})

	t.Run("should propagate storage errors", func(t *testing.T) {
		ctx := t.Context()
		store := new(MockOrderStore)
		store.On("Update", ctx, id).Return(nil, errs.NewStorageError("select order", nil)).Once()

		cmd, _ := commands.NewAdvanceOrderCommand(id)
		h := commands.NewAdvanceOrderCommandHandler(store, nil, discardLogger())
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrStorage)
	})
}
