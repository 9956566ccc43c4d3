// Package http exposes the fulfillment use cases over a REST API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// Handler interfaces consumed by the server, one per use case. The server
// depends on behavior only, so transport tests run against lightweight fakes.
type (
	createOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	changeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error)
	}
	cancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}
	reportDriverLocationHandler interface {
		Handle(ctx context.Context, cmd commands.ReportDriverLocationCommand) error
	}
	planRouteHandler interface {
		Handle(ctx context.Context, query queries.PlanRouteQuery) (*services.RoutePlan, error)
	}
	recommendBatchesHandler interface {
		Handle(ctx context.Context, query queries.RecommendBatchesQuery) (services.BatchResult, error)
	}
	mapSnapshotHandler interface {
		Handle(ctx context.Context, query queries.MapSnapshotQuery) (*queries.MapSnapshot, error)
	}
)

// Server coordinates between HTTP requests and application use cases.
type Server struct {
	createOrder      createOrderHandler
	changeStatus     changeOrderStatusHandler
	cancelOrder      cancelOrderHandler
	reportLocation   reportDriverLocationHandler
	planRoute        planRouteHandler
	recommendBatches recommendBatchesHandler
	mapSnapshot      mapSnapshotHandler

	logger *slog.Logger
}

// NewServer creates the HTTP server with all use case handlers.
func NewServer(
	createOrder createOrderHandler,
	changeStatus changeOrderStatusHandler,
	cancelOrder cancelOrderHandler,
	reportLocation reportDriverLocationHandler,
	planRoute planRouteHandler,
	recommendBatches recommendBatchesHandler,
	mapSnapshot mapSnapshotHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrder:      createOrder,
		changeStatus:     changeStatus,
		cancelOrder:      cancelOrder,
		reportLocation:   reportLocation,
		planRoute:        planRoute,
		recommendBatches: recommendBatches,
		mapSnapshot:      mapSnapshot,
		logger:           logger.With("component", "http_server"),
	}
}

// RegisterRoutes mounts all endpoints on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.PATCH("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/drivers/:id/location", s.ReportDriverLocation)
	api.POST("/routes/plan", s.PlanRoute)
	api.GET("/batches/recommend", s.RecommendBatches)
	api.GET("/map/snapshot", s.MapSnapshot)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	items := make([]commands.OrderItemInput, 0, len(request.Items))
	for _, item := range request.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return s.fail(ctx, err)
		}
		items = append(items, commands.OrderItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(
		request.CustomerName, request.Phone, request.Address,
		items, request.DeliveryFee, request.TotalAmount, request.PaymentMethod)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.createOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderToResponse(created))
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}

	var request ChangeOrderStatusRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	status, err := order.StatusFromString(request.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	actor, err := actorFromRequest(request.Actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, status, request.Reason, actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.changeStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}

	var request CancelOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, request.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	cancelled, err := s.cancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(cancelled))
}

// ReportDriverLocation handles POST /api/v1/drivers/:id/location.
func (s *Server) ReportDriverLocation(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}

	var request ReportDriverLocationRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewReportDriverLocationCommand(driverID, request.Lat, request.Lng)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.reportLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PlanRoute handles POST /api/v1/routes/plan.
func (s *Server) PlanRoute(ctx echo.Context) error {
	var request PlanRouteRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	orderIDs := make([]kernel.UUID, 0, len(request.OrderIDs))
	for _, raw := range request.OrderIDs {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return s.fail(ctx, err)
		}
		orderIDs = append(orderIDs, id)
	}

	query, err := queries.NewPlanRouteQuery(orderIDs)
	if err != nil {
		return s.fail(ctx, err)
	}

	plan, err := s.planRoute.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, routePlanToResponse(plan))
}

// RecommendBatches handles GET /api/v1/batches/recommend.
func (s *Server) RecommendBatches(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("limit", err))
		}
		limit = parsed
	}

	result, err := s.recommendBatches.Handle(ctx.Request().Context(), queries.NewRecommendBatchesQuery(limit))
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, batchResultToResponse(result))
}

// MapSnapshot handles GET /api/v1/map/snapshot.
func (s *Server) MapSnapshot(ctx echo.Context) error {
	force := ctx.QueryParam("force") == "true"

	snapshot, err := s.mapSnapshot.Handle(ctx.Request().Context(), queries.NewMapSnapshotQuery(force))
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, snapshotToResponse(snapshot))
}

// fail writes the mapped error response and logs server-side failures.
func (s *Server) fail(ctx echo.Context, err error) error {
	code, body := errorResponse(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", ctx.Request().Method,
			"path", ctx.Request().URL.Path,
			"error", err)
	}
	return ctx.JSON(code, body)
}

// actorFromRequest builds the domain actor from its transport form.
func actorFromRequest(request ActorRequest) (order.Actor, error) {
	switch request.Type {
	case "admin":
		return order.AdminActor{}, nil
	case "driver":
		driverID, err := kernel.UUIDFromString(request.DriverID)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("actor.driver_id", err)
		}
		return order.DriverActor{ID: driverID}, nil
	case "system":
		return order.SystemActor{}, nil
	default:
		return nil, errs.NewValueIsInvalidError("actor.type")
	}
}
