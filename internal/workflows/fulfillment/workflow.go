// Package fulfillment drives paid orders to delivery with a Temporal workflow.
//
// One FulfillmentWorkflow runs per paid order. It waits a stage delay, asks the
// AdvanceOrder activity to move the order one step and repeats until the order
// is delivered. The activity goes through the same AdvanceOrder use case staff
// use, so a manual advance in between only shortens the run.
package fulfillment

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// StatusQuery returns the workflow's current Status.
	StatusQuery = "get-status"

	// AdvanceOrderActivity is the registered name of Activities.AdvanceOrder.
	AdvanceOrderActivity = "AdvanceOrder"

	// NotFoundErrorType marks an order that no longer exists.
	NotFoundErrorType = "OrderNotFound"
	// NotPaidErrorType marks an order that cannot move because it is unpaid.
	NotPaidErrorType = "OrderNotPaid"
	// InvalidInputErrorType marks a tracking id that cannot be parsed.
	InvalidInputErrorType = "InvalidInput"

	// DefaultStageDelay is how long an order stays in each stage.
	DefaultStageDelay = 30 * time.Second
)

// Input starts a FulfillmentWorkflow.
type Input struct {
	TrackingID string
	StageDelay time.Duration
}

// Status is what the get-status query answers.
type Status struct {
	TrackingID string
	Stage      string
	Steps      int
	Done       bool
	LastError  string
}

// AdvanceResult is the outcome of one AdvanceOrder activity.
type AdvanceResult struct {
	Status    string
	Changed   bool
	Delivered bool
}

// WorkflowID is the workflow id used for an order, one run per order.
func WorkflowID(trackingID string) string {
	return "fulfillment-" + trackingID
}

// FulfillmentWorkflow moves a paid order one stage per StageDelay until it is delivered.
func FulfillmentWorkflow(ctx workflow.Context, in Input) (Status, error) {
	logger := workflow.GetLogger(ctx)

	if in.TrackingID == "" {
		return Status{}, temporal.NewNonRetryableApplicationError("tracking id is required", InvalidInputErrorType, nil)
	}

	delay := in.StageDelay
	if delay <= 0 {
		delay = DefaultStageDelay
	}

	status := Status{
		TrackingID: in.TrackingID,
		Stage:      "scheduled",
	}

	err := workflow.SetQueryHandler(ctx, StatusQuery, func() (Status, error) {
		return status, nil
	})
	if err != nil {
		return status, err
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        time.Minute,
			NonRetryableErrorTypes: []string{NotFoundErrorType, InvalidInputErrorType},
		},
	})

	for {
		if err := workflow.Sleep(ctx, delay); err != nil {
			return status, err
		}

		var result AdvanceResult
		if err := workflow.ExecuteActivity(ctx, AdvanceOrderActivity, in.TrackingID).Get(ctx, &result); err != nil {
			status.LastError = err.Error()

			var appErr *temporal.ApplicationError
			if errors.As(err, &appErr) && appErr.Type() == NotFoundErrorType {
				logger.Warn("Order vanished during fulfillment", "trackingId", in.TrackingID)
			}
			return status, err
		}

		status.Stage = result.Status
		if result.Changed {
			status.Steps++
			logger.Info("Order advanced", "trackingId", in.TrackingID, "stage", result.Status)
		}

		if result.Delivered {
			status.Done = true
			return status, nil
		}

		if !result.Changed {
			status.LastError = fmt.Sprintf("order %s is %s", in.TrackingID, result.Status)
			return status, temporal.NewNonRetryableApplicationError(status.LastError, NotPaidErrorType, nil)
		}
	}
}
