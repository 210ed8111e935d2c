package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrMarkOrderPaidCommandIsNotConstructed = errors.New(
	"MarkOrderPaidCommand must be created via NewMarkOrderPaidCommand constructor",
)

// MarkOrderPaidCommand records that the customer paid for an order.
type MarkOrderPaidCommand struct { //nolint:recvcheck //using for validation
	trackingID kernel.TrackingID

	guard guard.ConstructorGuard
}

// NewMarkOrderPaidCommand creates the command for the given order.
func NewMarkOrderPaidCommand(trackingID kernel.TrackingID) (MarkOrderPaidCommand, error) {
	cmd := MarkOrderPaidCommand{guard: guard.NewConstructorGuard()}
	if err := cmd.setTrackingID(trackingID); err != nil {
		return MarkOrderPaidCommand{}, err
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkOrderPaidCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderPaidCommandIsNotConstructed)
}

func (c MarkOrderPaidCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

func (c *MarkOrderPaidCommand) setTrackingID(trackingID kernel.TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}
	c.trackingID = trackingID
	return nil
}
