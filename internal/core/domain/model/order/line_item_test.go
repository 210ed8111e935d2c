package order_test

import (
	"math"
	"testing"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineItem(t *testing.T) {
	t.Run("should create valid line item", func(t *testing.T) {
		item, err := order.NewLineItem("burger-01", "Classic burger", 15000, 2)

		require.NoError(t, err)
		require.NoError(t, item.Validate())
		assert.Equal(t, "burger-01", item.ProductID())
		assert.Equal(t, "Classic burger", item.Name())
		assert.Equal(t, int64(15000), item.UnitPrice())
		assert.Equal(t, 2, item.Quantity())

		subtotal, err := item.Subtotal()
		require.NoError(t, err)
		assert.Equal(t, int64(30000), subtotal)
	})

	t.Run("should accept free items", func(t *testing.T) {
		item, err := order.NewLineItem("sauce", "Extra sauce", 0, 3)

		require.NoError(t, err)
		subtotal, _ := item.Subtotal()
		assert.Zero(t, subtotal)
	})

	t.Run("should reject zero quantity", func(t *testing.T) {
		_, err := order.NewLineItem("burger-01", "Classic burger", 15000, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})

	t.Run("should report every problem at once", func(t *testing.T) {
		_, err := order.NewLineItem(" ", "", -1, -2)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "value is required: productId")
		assert.Contains(t, err.Error(), "value is required: name")
		assert.Contains(t, err.Error(), "value is invalid: unitPrice")
		assert.Contains(t, err.Error(), "value is invalid: quantity")
	})

	t.Run("should detect subtotal overflow", func(t *testing.T) {
		item, err := order.NewLineItem("gold", "Gold bar", math.MaxInt64/2+1, 2)
		require.NoError(t, err)

		_, err = item.Subtotal()

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var item order.LineItem

		assert.Equal(t, order.ErrLineItemIsNotConstructed, item.Validate())
	})
}
