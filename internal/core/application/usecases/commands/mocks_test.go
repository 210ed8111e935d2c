package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderStore struct{ mock.Mock }

func (m *MockOrderStore) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// Update returns the configured error, or runs mutate on the configured
// current snapshot the way a real store would.
func (m *MockOrderStore) Update(
	ctx context.Context, id kernel.TrackingID, mutate ports.OrderMutation,
) (*order.Order, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return mutate(args.Get(0).(*order.Order))
}

type MockTrackingIDGenerator struct{ mock.Mock }

func (m *MockTrackingIDGenerator) Next() (kernel.TrackingID, error) {
	args := m.Called()
	return args.Get(0).(kernel.TrackingID), args.Error(1)
}

type MockTransitionObserver struct{ mock.Mock }

func (m *MockTransitionObserver) OrderTransitioned(ctx context.Context, id kernel.TrackingID, from, to order.Status) {
	m.Called(ctx, id, from, to)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func trackingID(t *testing.T, raw string) kernel.TrackingID {
	t.Helper()
	id, err := kernel.TrackingIDFromString(raw)
	require.NoError(t, err)
	return id
}

func orderIn(t *testing.T, id kernel.TrackingID, status order.Status) *order.Order {
	t.Helper()
	item, err := order.NewLineItem("burger-01", "Classic burger", 15000, 2)
	require.NoError(t, err)
	o, err := order.RestoreOrder(id, []order.LineItem{item}, 30000, status, time.Now())
	require.NoError(t, err)
	return o
}
