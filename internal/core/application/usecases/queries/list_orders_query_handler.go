package queries

import (
	"context"
)

// ListOrdersQueryHandler projects every stored order, most recently created first.
type ListOrdersQueryHandler struct {
	store OrderLister
}

func NewListOrdersQueryHandler(store OrderLister) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{store: store}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, NewOrderResponse(o))
	}
	return responses, nil
}
