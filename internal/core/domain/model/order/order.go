package order

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsInvalid wraps every rejection of an order's contents, such as
	// missing line items or a total that does not add up.
	ErrOrderIsInvalid = errors.New("order is invalid")
)

// Order is the aggregate root of the storefront: a customer's purchase and its
// position in the fulfillment lifecycle.
//
// Order follows these invariants:
//   - It has a valid tracking id
//   - It has at least one line item
//   - Total equals the sum of unit price times quantity over all line items
//   - Status only moves forward, see Status
//
// An Order value is an immutable snapshot. MarkPaid and Advance never modify
// the receiver; they return a new snapshot that the store writes back under the
// same tracking id.
type Order struct {
	id        kernel.TrackingID
	lineItems []LineItem
	total     int64
	status    Status
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewOrder creates an order awaiting payment.
//
// The caller-supplied total is checked against the line items and never
// corrected. createdAt is normalized to UTC with microsecond precision so that
// the snapshot round-trips through storage unchanged.
//
// Returns an error wrapping ErrOrderIsInvalid when validation fails.
//
// Example:
//
//	item, _ := order.NewLineItem("burger-01", "Classic burger", 15000, 2)
//	o, err := order.NewOrder(id, []order.LineItem{item}, 30000, time.Now())
func NewOrder(id kernel.TrackingID, lineItems []LineItem, total int64, createdAt time.Time) (*Order, error) {
	return build(id, lineItems, total, AwaitingPayment, createdAt)
}

// RestoreOrder rebuilds an order read from storage, applying the same
// validation as NewOrder plus a status check.
func RestoreOrder(
	id kernel.TrackingID, lineItems []LineItem, total int64, status Status, createdAt time.Time,
) (*Order, error) {
	return build(id, lineItems, total, status, createdAt)
}

func build(id kernel.TrackingID, lineItems []LineItem, total int64, status Status, createdAt time.Time) (*Order, error) {
	o := &Order{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setLineItems(lineItems, total),
		o.setStatus(status),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOrderIsInvalid, err)
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by tracking id.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.TrackingID {
	return o.id
}

// LineItems returns a copy of the order's line items in checkout order.
func (o *Order) LineItems() []LineItem {
	return slices.Clone(o.lineItems)
}

func (o *Order) Total() int64 {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// MarkPaid records payment.
//
// Returns a new snapshot in Confirmed when the order is awaiting payment, and
// the receiver itself for every other status, so callers can detect a no-op
// by pointer identity.
func (o *Order) MarkPaid() (*Order, error) {
	next, err := o.status.MarkPaid()
	if err != nil {
		return nil, err
	}
	return o.withStatus(next), nil
}

// Advance moves the order one step forward along the fulfillment pipeline.
//
// Orders awaiting payment and delivered orders are returned unchanged.
func (o *Order) Advance() (*Order, error) {
	next, err := o.status.Advance()
	if err != nil {
		return nil, err
	}
	return o.withStatus(next), nil
}

func (o *Order) withStatus(status Status) *Order {
	if status == o.status {
		return o
	}
	snapshot := *o
	snapshot.status = status
	return &snapshot
}

func (o *Order) setID(id kernel.TrackingID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setLineItems requires at least one constructed item and a matching total.
func (o *Order) setLineItems(lineItems []LineItem, total int64) error {
	if len(lineItems) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("lineItems", errors.New("an order needs at least one line item"))
	}

	var sum int64
	for i, item := range lineItems {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("line item %d: %w", i, err)
		}
		subtotal, err := item.Subtotal()
		if err != nil {
			return err
		}
		if sum > math.MaxInt64-subtotal {
			return errs.NewValueIsOutOfRangeError("total", "overflow", 0, int64(math.MaxInt64))
		}
		sum += subtotal
	}

	if total != sum {
		return errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%d does not match line items sum %d", total, sum))
	}

	o.lineItems = slices.Clone(lineItems)
	o.total = total
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt.UTC().Truncate(time.Microsecond)
	return nil
}
