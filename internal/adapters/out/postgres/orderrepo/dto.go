// Package orderrepo maps order aggregates to relational tables and implements
// the transaction-bound OrderRepository on GORM.
package orderrepo

import (
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderDTO is the header row of an order. Status is stored by name so that
// rows stay readable and survive enum renumbering.
type OrderDTO struct {
	ID        string         `gorm:"type:varchar(64);primaryKey"`
	Total     int64          `gorm:"not null"`
	Status    string         `gorm:"type:varchar(32);not null;index"`
	CreatedAt time.Time      `gorm:"not null;index"`
	Items     []OrderItemDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line item row. Position keeps the checkout order.
type OrderItemDTO struct {
	OrderID   string `gorm:"type:varchar(64);primaryKey"`
	Position  int    `gorm:"primaryKey"`
	ProductID string `gorm:"type:varchar(128);not null"`
	Name      string `gorm:"not null"`
	UnitPrice int64  `gorm:"not null"`
	Quantity  int    `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	lineItems := aggregate.LineItems()
	items := make([]OrderItemDTO, 0, len(lineItems))
	for i, li := range lineItems {
		items = append(items, OrderItemDTO{
			OrderID:   aggregate.ID().String(),
			Position:  i,
			ProductID: li.ProductID(),
			Name:      li.Name(),
			UnitPrice: li.UnitPrice(),
			Quantity:  li.Quantity(),
		})
	}

	return OrderDTO{
		ID:        aggregate.ID().String(),
		Total:     aggregate.Total(),
		Status:    aggregate.Status().String(),
		CreatedAt: aggregate.CreatedAt(),
		Items:     items,
	}
}

// toDomain rebuilds the aggregate through RestoreOrder, so rows that violate
// domain rules surface as errors instead of invalid snapshots. Callers report
// them as storage failures.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.TrackingIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, item := range dto.Items {
		li, itemErr := order.NewLineItem(item.ProductID, item.Name, item.UnitPrice, item.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, li)
	}

	return order.RestoreOrder(id, items, dto.Total, status, dto.CreatedAt)
}
