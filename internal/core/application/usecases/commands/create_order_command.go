package commands

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// LineItemInput is one cart line as submitted at checkout.
type LineItemInput struct {
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int
}

// CreateOrderCommand represents a checkout: the cart lines and the total the
// client computed for them.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand([]LineItemInput{
//	    {ProductID: "burger-01", Name: "Classic burger", UnitPrice: 15000, Quantity: 2},
//	}, 30000)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//
//	trackingID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	lineItems []order.LineItem
	total     int64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates every line and the total's sign. Whether the
// total matches the lines is decided by the Order aggregate.
func NewCreateOrderCommand(items []LineItemInput, total int64) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setLineItems(items),
		cmd.setTotal(total),
	); err != nil {
		return CreateOrderCommand{}, fmt.Errorf("%w: %w", order.ErrOrderIsInvalid, err)
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// LineItems returns a copy of the validated line items.
func (c CreateOrderCommand) LineItems() []order.LineItem {
	return append([]order.LineItem(nil), c.lineItems...)
}

func (c CreateOrderCommand) Total() int64 {
	return c.total
}

func (c *CreateOrderCommand) setLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("lineItems", errors.New("an order needs at least one line item"))
	}

	lineItems := make([]order.LineItem, 0, len(items))
	var itemErrs []error
	for i, in := range items {
		li, err := order.NewLineItem(in.ProductID, in.Name, in.UnitPrice, in.Quantity)
		if err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("line item %d: %w", i, err))
			continue
		}
		lineItems = append(lineItems, li)
	}
	if err := errors.Join(itemErrs...); err != nil {
		return err
	}

	c.lineItems = lineItems
	return nil
}

func (c *CreateOrderCommand) setTotal(total int64) error {
	if total < 0 {
		return errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%d is negative", total))
	}

	c.total = total
	return nil
}
