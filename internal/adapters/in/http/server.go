package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/generated/servers"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// FulfillmentStarter hands a freshly paid order over to background fulfillment.
type FulfillmentStarter interface {
	StartFulfillment(ctx context.Context, trackingID kernel.TrackingID) error
}

// ServerOption tunes optional behaviour of the Server.
type ServerOption func(*Server)

// WithAutoPrepareOnPayment moves a freshly paid order straight into preparation.
func WithAutoPrepareOnPayment(enabled bool) ServerOption {
	return func(s *Server) {
		s.autoPrepareOnPayment = enabled
	}
}

// WithFulfillmentStarter starts background fulfillment for every freshly paid order.
func WithFulfillmentStarter(starter FulfillmentStarter) ServerOption {
	return func(s *Server) {
		s.fulfillment = starter
	}
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler   commands.CreateOrderCommandHandler
	markOrderPaidHandler commands.MarkOrderPaidCommandHandler
	advanceOrderHandler  commands.AdvanceOrderCommandHandler

	// Query handlers
	getOrderHandler   queries.GetOrderQueryHandler
	listOrdersHandler queries.ListOrdersQueryHandler

	autoPrepareOnPayment bool
	fulfillment          FulfillmentStarter

	logger *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	markOrderPaidHandler commands.MarkOrderPaidCommandHandler,
	advanceOrderHandler commands.AdvanceOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	logger *slog.Logger,
	opts ...ServerOption,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		createOrderHandler:   createOrderHandler,
		markOrderPaidHandler: markOrderPaidHandler,
		advanceOrderHandler:  advanceOrderHandler,
		getOrderHandler:      getOrderHandler,
		listOrdersHandler:    listOrdersHandler,
		logger:               logger.With("component", "http_server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListOrders handles GET /api/v1/orders - lists every order, newest first.
func (s *Server) ListOrders(ctx echo.Context) error {
	orders, err := s.listOrdersHandler.Handle(ctx.Request().Context(), queries.NewListOrdersQuery())
	if err != nil {
		return s.fail(ctx, err, "could not list orders")
	}

	response := make([]servers.Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders - places an order awaiting payment.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&newOrder); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	items := make([]commands.LineItemInput, len(newOrder.Items))
	for i, item := range newOrder.Items {
		items[i] = commands.LineItemInput{
			ProductID: item.ProductId,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Qty,
		}
	}

	cmd, err := commands.NewCreateOrderCommand(items, newOrder.Total)
	if err != nil {
		return s.fail(ctx, err, "could not create order")
	}

	trackingID, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "could not create order")
	}

	return ctx.JSON(http.StatusCreated, servers.OrderCreated{TrackingId: trackingID.String()})
}

// GetOrder handles GET /api/v1/orders/{trackingId} - the tracking screen.
func (s *Server) GetOrder(ctx echo.Context, trackingID servers.TrackingId) error {
	id, err := kernel.TrackingIDFromString(trackingID)
	if err != nil {
		return s.fail(ctx, err, "could not get order")
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err, "could not get order")
	}

	o, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "could not get order")
	}

	return ctx.JSON(http.StatusOK, toOrder(o))
}

// PayOrder handles POST /api/v1/orders/{trackingId}/payment - payment confirmation.
// Paying an order that is already paid answers with its current snapshot.
func (s *Server) PayOrder(ctx echo.Context, trackingID servers.TrackingId) error {
	reqCtx := ctx.Request().Context()

	id, err := kernel.TrackingIDFromString(trackingID)
	if err != nil {
		return s.fail(ctx, err, "could not confirm payment")
	}

	cmd, err := commands.NewMarkOrderPaidCommand(id)
	if err != nil {
		return s.fail(ctx, err, "could not confirm payment")
	}

	result, err := s.markOrderPaidHandler.Handle(reqCtx, cmd)
	if err != nil {
		return s.fail(ctx, err, "could not confirm payment")
	}

	current := result.Order
	if result.Changed() && s.autoPrepareOnPayment {
		current = s.prepare(reqCtx, id, current)
	}

	if result.Changed() && s.fulfillment != nil {
		// Payment already happened; a failed hand-off is recovered by staff.
		if err := s.fulfillment.StartFulfillment(reqCtx, id); err != nil {
			s.logger.ErrorContext(reqCtx, "failed to start fulfillment",
				"trackingId", id.String(), "error", err)
		}
	}

	return ctx.JSON(http.StatusOK, toOrder(queries.NewOrderResponse(current)))
}

// prepare moves a freshly paid order into preparation. Payment is already
// stored at this point, so a failure is logged and the paid snapshot is kept.
func (s *Server) prepare(ctx context.Context, id kernel.TrackingID, paid *order.Order) *order.Order {
	cmd, err := commands.NewAdvanceOrderCommand(id)
	if err == nil {
		var advanced commands.TransitionResult
		advanced, err = s.advanceOrderHandler.Handle(ctx, cmd)
		if err == nil {
			return advanced.Order
		}
	}

	s.logger.ErrorContext(ctx, "failed to move paid order into preparation",
		"trackingId", id.String(), "error", err)

	return paid
}

// AdvanceOrder handles POST /api/v1/staff/orders/{trackingId}/advance - one
// fulfillment step. Delivered orders are answered unchanged.
func (s *Server) AdvanceOrder(ctx echo.Context, trackingID servers.TrackingId) error {
	id, err := kernel.TrackingIDFromString(trackingID)
	if err != nil {
		return s.fail(ctx, err, "could not advance order")
	}

	cmd, err := commands.NewAdvanceOrderCommand(id)
	if err != nil {
		return s.fail(ctx, err, "could not advance order")
	}

	result, err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "could not advance order")
	}

	if result.Changed() {
		s.logger.InfoContext(ctx.Request().Context(), "order advanced by staff",
			"trackingId", id.String(),
			"staff", ctx.Get(staffSubjectKey),
			"from", result.Previous.String(),
			"to", result.Order.Status().String())
	}

	return ctx.JSON(http.StatusOK, toOrder(queries.NewOrderResponse(result.Order)))
}

// fail maps a use case error onto the wire. Storage and unexpected errors are
// logged and answered with the action only. Storage is matched first: a row
// that no longer decodes carries the domain error as its cause.
func (s *Server) fail(ctx echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, errs.ErrStorage):
		return s.internalError(ctx, err, action)
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, servers.Error{
			Code:    http.StatusNotFound,
			Message: "order not found",
		})
	case errors.Is(err, order.ErrOrderIsInvalid),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusUnprocessableEntity, servers.Error{
			Code:    http.StatusUnprocessableEntity,
			Message: action + ": " + err.Error(),
		})
	default:
		return s.internalError(ctx, err, action)
	}
}

func (s *Server) internalError(ctx echo.Context, err error, action string) error {
	s.logger.ErrorContext(ctx.Request().Context(), action,
		"requestId", ctx.Response().Header().Get(echo.HeaderXRequestID),
		"error", err)

	return ctx.JSON(http.StatusInternalServerError, servers.Error{
		Code:    http.StatusInternalServerError,
		Message: action,
	})
}

func toOrder(o queries.OrderResponse) servers.Order {
	items := make([]servers.LineItem, len(o.LineItems))
	for i, li := range o.LineItems {
		items[i] = servers.LineItem{
			ProductId: li.ProductID,
			Name:      li.Name,
			UnitPrice: li.UnitPrice,
			Qty:       li.Quantity,
			Subtotal:  li.Subtotal,
		}
	}

	return servers.Order{
		TrackingId:  o.TrackingID,
		Items:       items,
		Total:       o.Total,
		Status:      servers.OrderStatus(o.Status),
		StatusLabel: o.StatusLabel,
		Step:        o.Step,
		Paid:        o.Paid,
		Delivered:   o.Delivered,
		CreatedAt:   o.CreatedAt,
	}
}
