package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand moves a paid order one step along fulfillment. The
// target status is always derived from the current one; callers cannot pick it.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	trackingID kernel.TrackingID

	guard guard.ConstructorGuard
}

// NewAdvanceOrderCommand creates the command for the given order.
func NewAdvanceOrderCommand(trackingID kernel.TrackingID) (AdvanceOrderCommand, error) {
	cmd := AdvanceOrderCommand{guard: guard.NewConstructorGuard()}
	if err := cmd.setTrackingID(trackingID); err != nil {
		return AdvanceOrderCommand{}, err
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

func (c AdvanceOrderCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

func (c *AdvanceOrderCommand) setTrackingID(trackingID kernel.TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}
	c.trackingID = trackingID
	return nil
}
