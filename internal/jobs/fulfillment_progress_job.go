package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DefaultFulfillmentSchedule moves paid orders forward every thirty seconds.
const DefaultFulfillmentSchedule = "*/30 * * * * *"

type (
	// OrdersLister lists order projections.
	OrdersLister interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderResponse, error)
	}

	// OrderAdvancer moves one order a single fulfillment step.
	OrderAdvancer interface {
		Handle(ctx context.Context, cmd commands.AdvanceOrderCommand) (commands.TransitionResult, error)
	}
)

// FulfillmentProgressJob stands in for the kitchen and the courier: on every
// tick each paid, undelivered order moves exactly one step forward.
type FulfillmentProgressJob struct {
	lister   OrdersLister
	advancer OrderAdvancer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewFulfillmentProgressJob creates the job. An empty schedule falls back to
// DefaultFulfillmentSchedule; schedules carry a seconds field.
func NewFulfillmentProgressJob(
	lister OrdersLister, advancer OrderAdvancer, schedule string, logger *slog.Logger,
) *FulfillmentProgressJob {
	if schedule == "" {
		schedule = DefaultFulfillmentSchedule
	}

	return &FulfillmentProgressJob{
		lister:   lister,
		advancer: advancer,
		schedule: schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "fulfillment_progress_job"),
	}
}

// Start registers the tick on the configured schedule and starts the scheduler.
func (j *FulfillmentProgressJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Fulfillment progress job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (j *FulfillmentProgressJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Fulfillment progress job stopped")
}

// RunOnce performs a single tick and reports how many orders moved.
func (j *FulfillmentProgressJob) RunOnce(ctx context.Context) int {
	orders, err := j.lister.Handle(ctx, queries.NewListOrdersQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Fulfillment progress job failed to list orders", "error", err)
		return 0
	}

	advanced := 0
	for _, o := range orders {
		if !o.Paid || o.Delivered {
			continue
		}

		if j.advance(ctx, o.TrackingID) {
			advanced++
		}
	}

	if advanced > 0 {
		j.logger.DebugContext(ctx, "Fulfillment progress job tick", "advanced", advanced)
	}

	return advanced
}

func (j *FulfillmentProgressJob) advance(ctx context.Context, rawID string) bool {
	id, err := kernel.TrackingIDFromString(rawID)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stored order has an unusable tracking id", "trackingId", rawID, "error", err)
		return false
	}

	cmd, err := commands.NewAdvanceOrderCommand(id)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build advance command", "trackingId", rawID, "error", err)
		return false
	}

	result, err := j.advancer.Handle(ctx, cmd)
	if err != nil {
		// Orders cleared between listing and advancing are not a failure.
		if !errors.Is(err, errs.ErrObjectNotFound) {
			j.logger.ErrorContext(ctx, "Fulfillment progress job failed to advance order",
				"trackingId", rawID, "error", err)
		}
		return false
	}

	return result.Changed()
}
