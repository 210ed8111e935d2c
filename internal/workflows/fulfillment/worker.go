package fulfillment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"storefront/internal/core/domain/model/kernel"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
)

// DefaultTaskQueue is the task queue fulfillment workflows run on.
const DefaultTaskQueue = "storefront-fulfillment"

// Dial connects to Temporal, logging through logger.
func Dial(hostPort, namespace string, logger *slog.Logger) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
		Logger:    log.NewStructuredLogger(logger.With("component", "temporal")),
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal at %s: %w", hostPort, err)
	}

	return c, nil
}

// NewWorker registers the fulfillment workflow and activities on taskQueue.
func NewWorker(c client.Client, taskQueue string, activities *Activities) worker.Worker {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}

	w := worker.New(c, taskQueue, worker.Options{
		Identity: "storefront-fulfillment-" + hostname(),
	})
	w.RegisterWorkflow(FulfillmentWorkflow)
	w.RegisterActivity(activities)

	return w
}

// Starter starts one FulfillmentWorkflow per paid order.
type Starter struct {
	client     client.Client
	taskQueue  string
	stageDelay time.Duration
}

// NewStarter creates a Starter. A zero stageDelay uses DefaultStageDelay.
func NewStarter(c client.Client, taskQueue string, stageDelay time.Duration) *Starter {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}

	return &Starter{
		client:     c,
		taskQueue:  taskQueue,
		stageDelay: stageDelay,
	}
}

// StartFulfillment starts the workflow for the order without waiting for it.
func (s *Starter) StartFulfillment(ctx context.Context, trackingID kernel.TrackingID) error {
	options := client.StartWorkflowOptions{
		ID:        WorkflowID(trackingID.String()),
		TaskQueue: s.taskQueue,
	}

	_, err := s.client.ExecuteWorkflow(ctx, options, FulfillmentWorkflow, Input{
		TrackingID: trackingID.String(),
		StageDelay: s.stageDelay,
	})
	if err != nil {
		return fmt.Errorf("start fulfillment of %s: %w", trackingID.String(), err)
	}

	return nil
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
