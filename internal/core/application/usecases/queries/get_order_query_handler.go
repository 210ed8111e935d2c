package queries

import (
	"context"
)

// GetOrderQueryHandler returns the current snapshot of one order.
// Unknown tracking ids yield errs.ObjectNotFoundError.
type GetOrderQueryHandler struct {
	store OrderReader
}

func NewGetOrderQueryHandler(store OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{store: store}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.store.Get(ctx, query.TrackingID())
	if err != nil {
		return OrderResponse{}, err
	}
	return NewOrderResponse(o), nil
}
