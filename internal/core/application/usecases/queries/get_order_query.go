package queries

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery looks up one order by tracking id.
type GetOrderQuery struct {
	trackingID kernel.TrackingID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates the query; the tracking id must be valid.
func NewGetOrderQuery(trackingID kernel.TrackingID) (GetOrderQuery, error) {
	if err := trackingID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{trackingID: trackingID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) TrackingID() kernel.TrackingID {
	return q.trackingID
}
