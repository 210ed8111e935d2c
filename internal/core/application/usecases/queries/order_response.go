// Package queries contains read operations over orders.
// Implements the Query side of CQRS: handlers read snapshots from the store
// and project them into response structs that never expose the aggregate.
package queries

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

type (
	// OrderReader reads a single order snapshot.
	OrderReader interface {
		Get(ctx context.Context, id kernel.TrackingID) (*order.Order, error)
	}

	// OrderLister reads every order snapshot, newest first.
	OrderLister interface {
		ListAll(ctx context.Context) ([]*order.Order, error)
	}
)

// LineItemResponse is one line of an order projection.
type LineItemResponse struct {
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int
	Subtotal  int64
}

// OrderResponse is the read model of an order as shown on the tracking screen.
//
// Example:
//
//	OrderResponse{
//	    TrackingID:  "MS-01J9ZKQ5W3D2V6T3KX4Y7B8C9A",
//	    Total:       30000,
//	    Status:      "InPreparation",
//	    StatusLabel: "En elaboración",
//	    Step:        2,
//	}
type OrderResponse struct {
	TrackingID  string
	LineItems   []LineItemResponse
	Total       int64
	Status      string
	StatusLabel string
	Step        int
	Paid        bool
	Delivered   bool
	CreatedAt   time.Time
}

// NewOrderResponse projects an order snapshot.
func NewOrderResponse(o *order.Order) OrderResponse {
	lineItems := o.LineItems()
	items := make([]LineItemResponse, 0, len(lineItems))
	for _, li := range lineItems {
		// Subtotals were checked when the order was built.
		subtotal, _ := li.Subtotal()
		items = append(items, LineItemResponse{
			ProductID: li.ProductID(),
			Name:      li.Name(),
			UnitPrice: li.UnitPrice(),
			Quantity:  li.Quantity(),
			Subtotal:  subtotal,
		})
	}

	status := o.Status()
	return OrderResponse{
		TrackingID:  o.ID().String(),
		LineItems:   items,
		Total:       o.Total(),
		Status:      status.String(),
		StatusLabel: status.Label(),
		Step:        status.Step(),
		Paid:        status.IsPaid(),
		Delivered:   status.IsTerminal(),
		CreatedAt:   o.CreatedAt(),
	}
}
