// Package http provides the HTTP adapter: request/response models, error
// mapping, and handlers that translate between the REST surface and the
// application's commands and queries.
package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers for the fulfillment API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	orchestrateOrderHandler commands.OrchestrateOrderCommandHandler
	recordMilestoneHandler  commands.RecordMilestoneCommandHandler

	// Query handlers
	getOrderStatusHandler   queries.GetOrderStatusQueryHandler
	getSlaComplianceHandler queries.GetSlaComplianceQueryHandler
	getSlaBreachesHandler   queries.GetSlaBreachesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	orchestrateOrderHandler commands.OrchestrateOrderCommandHandler,
	recordMilestoneHandler commands.RecordMilestoneCommandHandler,
	getOrderStatusHandler queries.GetOrderStatusQueryHandler,
	getSlaComplianceHandler queries.GetSlaComplianceQueryHandler,
	getSlaBreachesHandler queries.GetSlaBreachesQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		orchestrateOrderHandler: orchestrateOrderHandler,
		recordMilestoneHandler:  recordMilestoneHandler,
		getOrderStatusHandler:   getOrderStatusHandler,
		getSlaComplianceHandler: getSlaComplianceHandler,
		getSlaBreachesHandler:   getSlaBreachesHandler,
	}
}

// RegisterRoutes wires the API routes onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:orderId/orchestrate", s.OrchestrateOrder)
	api.POST("/orders/:orderId/milestones", s.RecordMilestone)
	api.GET("/orders/:orderId/status", s.GetOrderStatus)
	api.GET("/orders/:orderId/sla", s.GetSlaCompliance)
	api.GET("/sla/breaches", s.GetSlaBreaches)
}

// CreateOrder handles POST /api/v1/orders - registers a new order for orchestration.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID := kernel.NewUUID()
	if request.OrderID != "" {
		parsed, err := kernel.UUIDFromString(request.OrderID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid order ID: " + err.Error(),
			})
		}
		orderID = parsed
	}

	var preferredLocationID *kernel.UUID
	if request.PreferredLocationID != "" {
		parsed, err := kernel.UUIDFromString(request.PreferredLocationID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid preferred location ID: " + err.Error(),
			})
		}
		preferredLocationID = &parsed
	}

	items := make([]commands.CreateOrderItem, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, commands.CreateOrderItem{
			SkuID:    item.SkuID,
			Quantity: item.Quantity,
		})
	}

	placedAt := request.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}

	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		items,
		request.Destination,
		preferredLocationID,
		request.Priority,
		request.PaymentMode,
		request.CodAmount,
		request.WeightKg,
		placedAt,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.mapError(ctx, handleErr, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// OrchestrateOrder handles POST /api/v1/orders/{orderId}/orchestrate - runs
// the orchestration pipeline for one order and reports the resulting status.
func (s *Server) OrchestrateOrder(ctx echo.Context) error {
	orderID, err := s.orderIDParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID: " + err.Error(),
		})
	}

	cmd, err := commands.NewOrchestrateOrderCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid orchestration request: " + err.Error(),
		})
	}

	if handleErr := s.orchestrateOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.mapError(ctx, handleErr, "Failed to orchestrate order")
	}

	return s.GetOrderStatus(ctx)
}

// RecordMilestone handles POST /api/v1/orders/{orderId}/milestones - records
// a downstream execution event against a handed-off order.
func (s *Server) RecordMilestone(ctx echo.Context) error {
	orderID, err := s.orderIDParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID: " + err.Error(),
		})
	}

	var request RecordMilestoneRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewRecordMilestoneCommand(orderID, request.Kind, request.At)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid milestone data: " + err.Error(),
		})
	}

	if handleErr := s.recordMilestoneHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.mapError(ctx, handleErr, "Failed to record milestone")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderStatus handles GET /api/v1/orders/{orderId}/status - returns the
// consolidated order view: status, promise, latest run trail, and milestones.
func (s *Server) GetOrderStatus(ctx echo.Context) error {
	orderID, err := s.orderIDParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID: " + err.Error(),
		})
	}

	query, err := queries.NewGetOrderStatusQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid status request: " + err.Error(),
		})
	}

	view, err := s.getOrderStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.mapError(ctx, err, "Failed to retrieve order status")
	}

	return ctx.JSON(http.StatusOK, toOrderStatusResponse(view))
}

// GetSlaCompliance handles GET /api/v1/orders/{orderId}/sla - returns the
// derived promise-compliance snapshot for one order.
func (s *Server) GetSlaCompliance(ctx echo.Context) error {
	orderID, err := s.orderIDParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID: " + err.Error(),
		})
	}

	query, err := queries.NewGetSlaComplianceQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid SLA request: " + err.Error(),
		})
	}

	snapshot, err := s.getSlaComplianceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.mapError(ctx, err, "Failed to retrieve SLA compliance")
	}

	return ctx.JSON(http.StatusOK, SlaComplianceResponse{
		OrderID:      snapshot.OrderID.String(),
		PromisedAt:   snapshot.PromisedAt,
		TatDays:      snapshot.TatDays,
		Status:       snapshot.Status,
		DelayMinutes: snapshot.DelayMinutes,
	})
}

// GetSlaBreaches handles GET /api/v1/sla/breaches - lists undelivered orders
// whose delivery promise is breached or at risk, worst delay first.
func (s *Server) GetSlaBreaches(ctx echo.Context) error {
	breaches, err := s.getSlaBreachesHandler.Handle(
		ctx.Request().Context(), queries.NewGetSlaBreachesQuery())
	if err != nil {
		return s.mapError(ctx, err, "Failed to retrieve SLA breaches")
	}

	response := make([]SlaComplianceResponse, 0, len(breaches))
	for _, breach := range breaches {
		response = append(response, SlaComplianceResponse{
			OrderID:      breach.OrderID.String(),
			PromisedAt:   breach.PromisedAt,
			TatDays:      breach.TatDays,
			Status:       breach.Status,
			DelayMinutes: breach.DelayMinutes,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// orderIDParam parses the orderId path parameter.
func (s *Server) orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("orderId"))
}

// mapError translates application errors to HTTP status codes.
func (s *Server) mapError(ctx echo.Context, err error, fallback string) error {
	var notFoundErr *errs.ObjectNotFoundError
	switch {
	case errors.Is(err, commands.ErrNoOrderFound), errors.As(err, &notFoundErr):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrOrderIsHandedOff),
		errors.Is(err, order.ErrMilestoneBeforeHandOff):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: fallback,
		})
	}
}
