package cmd

import (
	"fmt"
	"log/slog"
	"time"

	httpadapter "storefront/internal/adapters/in/http"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"
	"storefront/internal/pkg/metrics"
	"storefront/internal/workflows/fulfillment"

	"github.com/labstack/echo/v4"
)

type CompositionRoot struct {
	cfg     Config
	logger  *slog.Logger
	store   ports.OrderStore
	ids     *kernel.TrackingIDGenerator
	metrics *metrics.Metrics

	fulfillmentStarter httpadapter.FulfillmentStarter
}

func NewCompositionRoot(cfg Config, store ports.OrderStore, logger *slog.Logger) *CompositionRoot {
	return &CompositionRoot{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		ids:     kernel.NewTrackingIDGenerator(time.Now),
		metrics: metrics.New(),
	}
}

// UseFulfillmentStarter makes payments start background fulfillment.
func (c *CompositionRoot) UseFulfillmentStarter(starter httpadapter.FulfillmentStarter) {
	c.fulfillmentStarter = starter
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.store, c.ids, time.Now, c.logger)
}

func (c *CompositionRoot) CreateMarkOrderPaidCommandHandler() commands.MarkOrderPaidCommandHandler {
	return commands.NewMarkOrderPaidCommandHandler(c.store, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.store, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.store)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.store)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	opts := []httpadapter.ServerOption{
		httpadapter.WithAutoPrepareOnPayment(c.cfg.AutoPrepareOnPayment),
	}
	if c.fulfillmentStarter != nil {
		opts = append(opts, httpadapter.WithFulfillmentStarter(c.fulfillmentStarter))
	}

	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateMarkOrderPaidCommandHandler(),
		c.CreateAdvanceOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.logger,
		opts...,
	)
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	e, err := httpadapter.NewRouter(c.CreateHTTPServer(), httpadapter.RouterConfig{
		StaffJWTSecret: []byte(c.cfg.StaffJWTSecret),
		Metrics:        c.metrics,
		Logger:         c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	return e, nil
}

// CreateJobManager returns the scheduled jobs of the configured fulfillment mode.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.cfg.FulfillmentMode != FulfillmentCron {
		return jobs.NewJobManager()
	}

	return jobs.NewJobManager(
		jobs.NewFulfillmentProgressJob(
			c.CreateListOrdersQueryHandler(),
			c.CreateAdvanceOrderCommandHandler(),
			c.cfg.FulfillmentSchedule,
			c.logger,
		),
	)
}

func (c *CompositionRoot) CreateFulfillmentActivities() *fulfillment.Activities {
	return fulfillment.NewActivities(c.CreateAdvanceOrderCommandHandler())
}
