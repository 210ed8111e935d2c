package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/jobs"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.DiscardHandler)

func seed(t *testing.T, store *memory.OrderStore, raw string, status order.Status) kernel.TrackingID {
	t.Helper()
	id, err := kernel.TrackingIDFromString(raw)
	require.NoError(t, err)
	item, err := order.NewLineItem("empanada", "Empanada", 1500, 4)
	require.NoError(t, err)
	o, err := order.RestoreOrder(id, []order.LineItem{item}, 6000, status, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Create(t.Context(), o))
	return id
}

func statusOf(t *testing.T, store *memory.OrderStore, id kernel.TrackingID) order.Status {
	t.Helper()
	o, err := store.Get(t.Context(), id)
	require.NoError(t, err)
	return o.Status()
}

func newJob(store *memory.OrderStore) *jobs.FulfillmentProgressJob {
	return jobs.NewFulfillmentProgressJob(
		queries.NewListOrdersQueryHandler(store),
		commands.NewAdvanceOrderCommandHandler(store, nil, discardLogger),
		"",
		discardLogger,
	)
}

func TestFulfillmentProgressJob_RunOnce(t *testing.T) {
	t.Run("should move paid orders one step and leave the rest", func(t *testing.T) {
		store := memory.NewOrderStore()
		awaiting := seed(t, store, "MS-A", order.AwaitingPayment)
		confirmed := seed(t, store, "MS-B", order.Confirmed)
		preparing := seed(t, store, "MS-C", order.InPreparation)
		transit := seed(t, store, "MS-D", order.InTransit)
		delivered := seed(t, store, "MS-E", order.Delivered)

		advanced := newJob(store).RunOnce(t.Context())

		assert.Equal(t, 3, advanced)
		assert.Equal(t, order.AwaitingPayment, statusOf(t, store, awaiting))
		assert.Equal(t, order.InPreparation, statusOf(t, store, confirmed))
		assert.Equal(t, order.InTransit, statusOf(t, store, preparing))
		assert.Equal(t, order.Delivered, statusOf(t, store, transit))
		assert.Equal(t, order.Delivered, statusOf(t, store, delivered))
	})

	t.Run("should deliver a confirmed order after three ticks", func(t *testing.T) {
		store := memory.NewOrderStore()
		id := seed(t, store, "MS-F", order.Confirmed)
		job := newJob(store)

		for range 3 {
			job.RunOnce(t.Context())
		}
		assert.Equal(t, order.Delivered, statusOf(t, store, id))
		assert.Equal(t, 0, job.RunOnce(t.Context()))
	})

	t.Run("should tolerate orders removed mid tick", func(t *testing.T) {
		store := memory.NewOrderStore()
		seed(t, store, "MS-G", order.Confirmed)
		job := jobs.NewFulfillmentProgressJob(
			queries.NewListOrdersQueryHandler(store),
			advancerFunc(func(context.Context, commands.AdvanceOrderCommand) (commands.TransitionResult, error) {
				return commands.TransitionResult{}, errs.NewObjectNotFoundError("order", "MS-G")
			}),
			"",
			discardLogger,
		)

		assert.Equal(t, 0, job.RunOnce(t.Context()))
	})

	t.Run("should survive a failing listing", func(t *testing.T) {
		job := jobs.NewFulfillmentProgressJob(
			listerFunc(func(context.Context, queries.ListOrdersQuery) ([]queries.OrderResponse, error) {
				return nil, errs.NewStorageError("list orders", errors.New("connection refused"))
			}),
			commands.NewAdvanceOrderCommandHandler(memory.NewOrderStore(), nil, discardLogger),
			"",
			discardLogger,
		)

		assert.Equal(t, 0, job.RunOnce(t.Context()))
	})
}

func TestFulfillmentProgressJob_Start(t *testing.T) {
	t.Run("should reject an invalid schedule", func(t *testing.T) {
		job := jobs.NewFulfillmentProgressJob(
			queries.NewListOrdersQueryHandler(memory.NewOrderStore()),
			commands.NewAdvanceOrderCommandHandler(memory.NewOrderStore(), nil, discardLogger),
			"every now and then",
			discardLogger,
		)

		require.Error(t, job.Start())
	})

	t.Run("should advance orders on schedule", func(t *testing.T) {
		store := memory.NewOrderStore()
		id := seed(t, store, "MS-H", order.Confirmed)
		job := jobs.NewFulfillmentProgressJob(
			queries.NewListOrdersQueryHandler(store),
			commands.NewAdvanceOrderCommandHandler(store, nil, discardLogger),
			"* * * * * *",
			discardLogger,
		)

		require.NoError(t, job.Start())
		defer job.Stop()

		assert.Eventually(t, func() bool {
			o, err := store.Get(context.Background(), id)
			return err == nil && o.Status() != order.Confirmed
		}, 3*time.Second, 50*time.Millisecond)
	})
}

type fakeJob struct {
	startErr error
	started  bool
	stopped  bool
}

func (f *fakeJob) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeJob) Stop() { f.stopped = true }

func TestJobManager(t *testing.T) {
	t.Run("should start and stop every job", func(t *testing.T) {
		a, b := &fakeJob{}, &fakeJob{}
		jm := jobs.NewJobManager(a, b)

		require.NoError(t, jm.StartAll())
		assert.True(t, a.started)
		assert.True(t, b.started)

		jm.StopAll()
		assert.True(t, a.stopped)
		assert.True(t, b.stopped)
	})

	t.Run("should stop started jobs when one fails to start", func(t *testing.T) {
		a, b := &fakeJob{}, &fakeJob{startErr: errors.New("bad schedule")}
		jm := jobs.NewJobManager(a, b)

		require.Error(t, jm.StartAll())
		assert.True(t, a.stopped)
		assert.False(t, b.stopped)
	})
}

type advancerFunc func(context.Context, commands.AdvanceOrderCommand) (commands.TransitionResult, error)

func (f advancerFunc) Handle(ctx context.Context, cmd commands.AdvanceOrderCommand) (commands.TransitionResult, error) {
	return f(ctx, cmd)
}

type listerFunc func(context.Context, queries.ListOrdersQuery) ([]queries.OrderResponse, error)

func (f listerFunc) Handle(ctx context.Context, q queries.ListOrdersQuery) ([]queries.OrderResponse, error) {
	return f(ctx, q)
}
