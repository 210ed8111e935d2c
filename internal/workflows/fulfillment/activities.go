package fulfillment

import (
	"context"
	"errors"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// OrderAdvancer moves one order a single fulfillment step.
type OrderAdvancer interface {
	Handle(ctx context.Context, cmd commands.AdvanceOrderCommand) (commands.TransitionResult, error)
}

// Activities holds the fulfillment activities.
type Activities struct {
	advancer OrderAdvancer
}

// NewActivities creates the activities backed by the AdvanceOrder use case.
func NewActivities(advancer OrderAdvancer) *Activities {
	return &Activities{advancer: advancer}
}

// AdvanceOrder moves the order one step. Missing orders and malformed ids fail
// without retry; storage failures are retried by Temporal.
func (a *Activities) AdvanceOrder(ctx context.Context, trackingID string) (AdvanceResult, error) {
	logger := activity.GetLogger(ctx)

	id, err := kernel.TrackingIDFromString(trackingID)
	if err != nil {
		return AdvanceResult{}, temporal.NewNonRetryableApplicationError(err.Error(), InvalidInputErrorType, err)
	}

	cmd, err := commands.NewAdvanceOrderCommand(id)
	if err != nil {
		return AdvanceResult{}, temporal.NewNonRetryableApplicationError(err.Error(), InvalidInputErrorType, err)
	}

	result, err := a.advancer.Handle(ctx, cmd)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return AdvanceResult{}, temporal.NewNonRetryableApplicationError(err.Error(), NotFoundErrorType, err)
		}
		logger.Warn("Advance failed, will retry", "trackingId", trackingID, "error", err)
		return AdvanceResult{}, err
	}

	status := result.Order.Status()
	return AdvanceResult{
		Status:    status.String(),
		Changed:   result.Changed(),
		Delivered: status.IsTerminal(),
	}, nil
}
