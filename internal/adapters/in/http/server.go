// Package http exposes the ordering and kitchen operations as a JSON API.
// It binds requests, translates them into commands and queries, and maps
// application errors onto HTTP status codes; no business rules live here.
package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"lunchroom/internal/adapters/out/payments"
	"lunchroom/internal/core/application/usecases/commands"
	"lunchroom/internal/core/application/usecases/queries"
	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// userIDHeader carries the authenticated user's id, set by the gateway in
// front of this service. Requests without it are treated as guests where the
// route allows that and rejected otherwise.
const userIDHeader = "X-User-ID"

// signatureHeader carries the payment processor's webhook signature.
const signatureHeader = "Stripe-Signature"

// Server wires HTTP routes to command and query handlers.
type Server struct {
	// Command handlers
	placeOrderHandler            commands.PlaceOrderCommandHandler
	updateOrderItemStatusHandler commands.UpdateOrderItemStatusCommandHandler
	updateOrderStatusHandler     commands.UpdateOrderStatusCommandHandler
	fulfillMenuItemHandler       commands.FulfillMenuItemCommandHandler
	recordPaymentEventHandler    commands.RecordPaymentEventCommandHandler

	// Query handlers
	getOrderHandler          queries.GetOrderQueryHandler
	getKitchenOrdersHandler  queries.GetKitchenOrdersQueryHandler
	getKitchenSummaryHandler queries.GetKitchenSummaryQueryHandler
	getDailyStatsHandler     queries.GetDailyStatsQueryHandler

	webhookVerifier *payments.WebhookVerifier
}

// NewServer creates an HTTP server with the required command and query
// handlers plus the webhook verifier.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	updateOrderItemStatusHandler commands.UpdateOrderItemStatusCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	fulfillMenuItemHandler commands.FulfillMenuItemCommandHandler,
	recordPaymentEventHandler commands.RecordPaymentEventCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getKitchenOrdersHandler queries.GetKitchenOrdersQueryHandler,
	getKitchenSummaryHandler queries.GetKitchenSummaryQueryHandler,
	getDailyStatsHandler queries.GetDailyStatsQueryHandler,
	webhookVerifier *payments.WebhookVerifier,
) *Server {
	return &Server{
		placeOrderHandler:            placeOrderHandler,
		updateOrderItemStatusHandler: updateOrderItemStatusHandler,
		updateOrderStatusHandler:     updateOrderStatusHandler,
		fulfillMenuItemHandler:       fulfillMenuItemHandler,
		recordPaymentEventHandler:    recordPaymentEventHandler,
		getOrderHandler:              getOrderHandler,
		getKitchenOrdersHandler:      getKitchenOrdersHandler,
		getKitchenSummaryHandler:     getKitchenSummaryHandler,
		getDailyStatsHandler:         getDailyStatsHandler,
		webhookVerifier:              webhookVerifier,
	}
}

// RegisterRoutes mounts every endpoint on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.PlaceOrder)
	api.POST("/orders/guest", s.PlaceGuestOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/guest/:id", s.GetGuestOrder)

	api.GET("/kitchen/orders", s.GetKitchenOrders)
	api.GET("/kitchen/summary", s.GetKitchenSummary)
	api.GET("/kitchen/stats", s.GetDailyStats)
	api.PATCH("/kitchen/order-items/:id/status", s.UpdateOrderItemStatus)
	api.PATCH("/kitchen/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/kitchen/menu-items/:id/fulfill", s.FulfillMenuItem)

	api.POST("/payments/webhook", s.PaymentWebhook)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// PlaceOrder handles POST /api/v1/orders - checkout for a registered user.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	userID, err := s.requireUserID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var request placeOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	lines, err := toOrderLines(request.Items)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(userID, lines, request.DeliveryNotes)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toPlaceOrderResponse(result))
}

// PlaceGuestOrder handles POST /api/v1/orders/guest - checkout for a guest.
func (s *Server) PlaceGuestOrder(ctx echo.Context) error {
	var request guestPlaceOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	lines, err := toOrderLines(request.Items)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewGuestPlaceOrderCommand(
		request.Email, request.FirstName, request.LastName, lines, request.DeliveryNotes,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toPlaceOrderResponse(result))
}

// GetOrder handles GET /api/v1/orders/:id - a registered user reads their own
// order.
func (s *Server) GetOrder(ctx echo.Context) error {
	userID, err := s.requireUserID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.getOrderScoped(ctx, &userID)
}

// GetGuestOrder handles GET /api/v1/orders/guest/:id - a guest reads their
// order by id. The order id itself is the access token here; guest ids are
// unguessable v4 UUIDs handed out at checkout.
func (s *Server) GetGuestOrder(ctx echo.Context) error {
	return s.getOrderScoped(ctx, nil)
}

func (s *Server) getOrderScoped(ctx echo.Context, ownerID *kernel.UUID) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	query, err := queries.NewGetOrderQuery(orderID, ownerID)
	if err != nil {
		return s.fail(ctx, err)
	}
	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrderResponse(resp))
}

// GetKitchenOrders handles GET /api/v1/kitchen/orders - the day's orders for
// the kitchen dashboard. The date query parameter defaults to today;
// fulfillmentStatus and menuItemId narrow the listing.
func (s *Server) GetKitchenOrders(ctx echo.Context) error {
	day, err := s.dayParam(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	filter, err := s.kitchenOrdersFilter(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewFilteredGetKitchenOrdersQuery(day, filter)
	if err != nil {
		return s.fail(ctx, err)
	}
	responses, err := s.getKitchenOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toKitchenOrderResponses(responses))
}

// GetKitchenSummary handles GET /api/v1/kitchen/summary - per-dish demand for
// the day.
func (s *Server) GetKitchenSummary(ctx echo.Context) error {
	day, err := s.dayParam(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	rows, err := s.getKitchenSummaryHandler.Handle(
		ctx.Request().Context(), queries.NewGetKitchenSummaryQuery(day),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toKitchenSummaryResponses(rows))
}

// GetDailyStats handles GET /api/v1/kitchen/stats - the admin report for the
// day.
func (s *Server) GetDailyStats(ctx echo.Context) error {
	day, err := s.dayParam(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp, err := s.getDailyStatsHandler.Handle(
		ctx.Request().Context(), queries.NewGetDailyStatsQuery(day),
	)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, dailyStatsResponse{
		Date:                resp.Day.String(),
		OrderCount:          resp.OrderCount,
		Revenue:             resp.Revenue.String(),
		ByPaymentStatus:     resp.ByPaymentStatus,
		ByFulfillmentStatus: resp.ByFulfillmentStatus,
	})
}

// UpdateOrderItemStatus handles PATCH /api/v1/kitchen/order-items/:id/status -
// moves one order line to a new fulfillment status.
func (s *Server) UpdateOrderItemStatus(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("orderItemId", err))
	}
	target, err := s.bindStatus(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderItemStatusCommand(itemID, target)
	if err != nil {
		return s.fail(ctx, err)
	}
	aggregate, err := s.updateOrderItemStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrderStatusResponse(aggregate))
}

// UpdateOrderStatus handles PATCH /api/v1/kitchen/orders/:id/status - moves
// every line of an order at once.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}
	target, err := s.bindStatus(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, target)
	if err != nil {
		return s.fail(ctx, err)
	}
	aggregate, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrderStatusResponse(aggregate))
}

// FulfillMenuItem handles POST /api/v1/kitchen/menu-items/:id/fulfill - marks
// every still-placed line of one dish fulfilled across the day's orders.
func (s *Server) FulfillMenuItem(ctx echo.Context) error {
	menuItemID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("menuItemId", err))
	}
	day, err := s.dayParam(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewFulfillMenuItemCommand(menuItemID, day)
	if err != nil {
		return s.fail(ctx, err)
	}
	count, err := s.fulfillMenuItemHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, fulfillMenuItemResponse{FulfilledItems: count})
}

// PaymentWebhook handles POST /api/v1/payments/webhook - processor events.
//
// Events for unknown payment references acknowledge with 200 so the processor
// stops redelivering; the webhook endpoint may simply be shared with other
// systems. Event types the order core does not act on are acknowledged the
// same way.
func (s *Server) PaymentWebhook(ctx echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request().Body, 1<<20))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	if err = s.webhookVerifier.Verify(payload, ctx.Request().Header.Get(signatureHeader)); err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "invalid signature",
		})
	}

	event, err := payments.ParseEvent(payload)
	if err != nil {
		return s.fail(ctx, err)
	}
	outcome, handled := event.Outcome()
	if !handled {
		return ctx.NoContent(http.StatusOK)
	}

	cmd, err := commands.NewRecordPaymentEventCommand(event.PaymentRef, outcome)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.recordPaymentEventHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, commands.ErrUnknownPaymentReference) {
			ctx.Logger().Warnf("webhook for unknown payment reference %s", event.PaymentRef)
			return ctx.NoContent(http.StatusOK)
		}
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusOK)
}

func (s *Server) requireUserID(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(userIDHeader)
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(userIDHeader)
	}
	userID, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(userIDHeader, err)
	}
	return userID, nil
}

func (s *Server) dayParam(ctx echo.Context) (kernel.Day, error) {
	raw := ctx.QueryParam("date")
	if raw == "" {
		return kernel.Today(), nil
	}
	day, err := kernel.ParseDay(raw)
	if err != nil {
		return kernel.Day{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return day, nil
}

func (s *Server) kitchenOrdersFilter(ctx echo.Context) (queries.KitchenOrdersFilter, error) {
	var filter queries.KitchenOrdersFilter

	if raw := ctx.QueryParam("fulfillmentStatus"); raw != "" {
		status, err := order.FulfillmentStatusFromString(raw)
		if err != nil {
			return queries.KitchenOrdersFilter{}, err
		}
		filter.FulfillmentStatus = &status
	}
	if raw := ctx.QueryParam("menuItemId"); raw != "" {
		menuItemID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return queries.KitchenOrdersFilter{}, errs.NewValueIsInvalidErrorWithCause("menuItemId", err)
		}
		filter.MenuItemID = &menuItemID
	}
	return filter, nil
}

func (s *Server) bindStatus(ctx echo.Context) (order.FulfillmentStatus, error) {
	var request statusUpdateRequest
	if err := ctx.Bind(&request); err != nil {
		return order.UnknownFulfillment, errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return order.FulfillmentStatusFromString(request.Status)
}

func (s *Server) fail(ctx echo.Context, err error) error {
	code, body := errorBody(err)
	if code == http.StatusInternalServerError {
		ctx.Logger().Errorf("request failed: %v", err)
	}
	return ctx.JSON(code, body)
}

// orderStatusResponse is the state of an order after a kitchen transition.
type orderStatusResponse struct {
	OrderID           string                   `json:"orderId"`
	FulfillmentStatus string                   `json:"fulfillmentStatus"`
	UpdatedAt         time.Time                `json:"updatedAt"`
	Items             []orderItemStatusSummary `json:"items"`
}

type orderItemStatusSummary struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func toOrderStatusResponse(aggregate *order.Order) orderStatusResponse {
	items := make([]orderItemStatusSummary, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		items[i] = orderItemStatusSummary{
			ID:     item.ID().String(),
			Status: item.Status().String(),
		}
	}
	return orderStatusResponse{
		OrderID:           aggregate.ID().String(),
		FulfillmentStatus: aggregate.FulfillmentStatus().String(),
		UpdatedAt:         aggregate.UpdatedAt(),
		Items:             items,
	}
}
