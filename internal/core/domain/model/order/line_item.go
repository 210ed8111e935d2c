package order

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created via NewLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one product in an order with the price captured at checkout.
// Unit price is in whole currency units.
type LineItem struct {
	productID string
	name      string
	unitPrice int64
	quantity  int
	guard     guard.ConstructorGuard
}

// NewLineItem validates and builds a line item. Product id and name are
// required, unit price must not be negative and quantity must be at least 1.
func NewLineItem(productID, name string, unitPrice int64, quantity int) (LineItem, error) {
	var validationErrs []error
	if strings.TrimSpace(productID) == "" {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("productId"))
	}
	if strings.TrimSpace(name) == "" {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("name"))
	}
	if unitPrice < 0 {
		validationErrs = append(validationErrs, errs.NewValueIsInvalidErrorWithCause("unitPrice",
			fmt.Errorf("%d is negative", unitPrice)))
	}
	if quantity < 1 {
		validationErrs = append(validationErrs, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if err := errors.Join(validationErrs...); err != nil {
		return LineItem{}, err
	}

	return LineItem{
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (li LineItem) Validate() error {
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

func (li LineItem) ProductID() string {
	return li.productID
}

func (li LineItem) Name() string {
	return li.name
}

func (li LineItem) UnitPrice() int64 {
	return li.unitPrice
}

func (li LineItem) Quantity() int {
	return li.quantity
}

// Subtotal returns unit price times quantity, failing on overflow.
func (li LineItem) Subtotal() (int64, error) {
	qty := int64(li.quantity)
	subtotal := li.unitPrice * qty
	if qty != 0 && subtotal/qty != li.unitPrice {
		return 0, errs.NewValueIsOutOfRangeError("subtotal of "+li.productID, li.unitPrice, 0, "int64 range")
	}
	return subtotal, nil
}
