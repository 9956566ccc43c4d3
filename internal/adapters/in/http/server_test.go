package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

type fakeCreateOrder struct {
	result *order.Order
	err    error
	cmd    commands.CreateOrderCommand
}

func (f *fakeCreateOrder) Handle(_ context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	f.cmd = cmd
	return f.result, f.err
}

type fakeChangeStatus struct {
	result *order.Order
	err    error
	cmd    commands.ChangeOrderStatusCommand
}

func (f *fakeChangeStatus) Handle(_ context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error) {
	f.cmd = cmd
	return f.result, f.err
}

type fakeCancelOrder struct {
	result *order.Order
	err    error
}

func (f *fakeCancelOrder) Handle(_ context.Context, _ commands.CancelOrderCommand) (*order.Order, error) {
	return f.result, f.err
}

type fakeReportLocation struct {
	err error
	cmd commands.ReportDriverLocationCommand
}

func (f *fakeReportLocation) Handle(_ context.Context, cmd commands.ReportDriverLocationCommand) error {
	f.cmd = cmd
	return f.err
}

type fakePlanRoute struct {
	result *services.RoutePlan
	err    error
}

func (f *fakePlanRoute) Handle(_ context.Context, _ queries.PlanRouteQuery) (*services.RoutePlan, error) {
	return f.result, f.err
}

type fakeRecommendBatches struct {
	result services.BatchResult
	err    error
	query  queries.RecommendBatchesQuery
}

func (f *fakeRecommendBatches) Handle(_ context.Context, query queries.RecommendBatchesQuery) (services.BatchResult, error) {
	f.query = query
	return f.result, f.err
}

type fakeMapSnapshot struct {
	result *queries.MapSnapshot
	err    error
	query  queries.MapSnapshotQuery
}

func (f *fakeMapSnapshot) Handle(_ context.Context, query queries.MapSnapshotQuery) (*queries.MapSnapshot, error) {
	f.query = query
	return f.result, f.err
}

type serverFixture struct {
	createOrder      *fakeCreateOrder
	changeStatus     *fakeChangeStatus
	cancelOrder      *fakeCancelOrder
	reportLocation   *fakeReportLocation
	planRoute        *fakePlanRoute
	recommendBatches *fakeRecommendBatches
	mapSnapshot      *fakeMapSnapshot
	echo             *echo.Echo
}

func newServerFixture() *serverFixture {
	fixture := &serverFixture{
		createOrder:      &fakeCreateOrder{},
		changeStatus:     &fakeChangeStatus{},
		cancelOrder:      &fakeCancelOrder{},
		reportLocation:   &fakeReportLocation{},
		planRoute:        &fakePlanRoute{},
		recommendBatches: &fakeRecommendBatches{},
		mapSnapshot:      &fakeMapSnapshot{},
		echo:             echo.New(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httpadapter.NewServer(
		fixture.createOrder, fixture.changeStatus, fixture.cancelOrder,
		fixture.reportLocation, fixture.planRoute, fixture.recommendBatches,
		fixture.mapSnapshot, logger)
	server.RegisterRoutes(fixture.echo)

	return fixture
}

func (f *serverFixture) do(method string, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)
	if body != "" {
		request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	recorder := httptest.NewRecorder()
	f.echo.ServeHTTP(recorder, request)
	return recorder
}

func sampleOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "Tomatoes", 2, "kg", 90, 180)
	require.NoError(t, err)

	now := time.Date(2025, 7, 10, 10, 30, 0, 0, time.UTC)
	o, err := order.NewOrder(
		kernel.NewUUID(), "Ann Chen", "0912345678", "12 Market St",
		[]order.Item{item}, 180, 60, 240, "cash", now, false, now)
	require.NoError(t, err)
	return o
}

func TestServer_Health(t *testing.T) {
	fixture := newServerFixture()

	recorder := fixture.do(nethttp.MethodGet, "/health", "")

	assert.Equal(t, nethttp.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ok")
}

func TestServer_CreateOrder_Success(t *testing.T) {
	fixture := newServerFixture()
	created := sampleOrder(t)
	fixture.createOrder.result = created

	body := `{
		"customer_name": "Ann Chen",
		"phone": "0912345678",
		"address": "12 Market St",
		"items": [{"product_id": "` + kernel.NewUUID().String() + `", "quantity": 2, "unit_price": 90}],
		"delivery_fee": 60,
		"total_amount": 240,
		"payment_method": "cash"
	}`

	recorder := fixture.do(nethttp.MethodPost, "/api/v1/orders", body)

	require.Equal(t, nethttp.StatusCreated, recorder.Code)

	var response httpadapter.OrderResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, created.ID().String(), response.ID)
	assert.Equal(t, "pending", response.Status)
	assert.Equal(t, "Ann Chen", response.CustomerName)
	require.Len(t, response.Items, 1)
	assert.Equal(t, "Tomatoes", response.Items[0].Name)
}

func TestServer_CreateOrder_MalformedBody_ShouldReturnBadRequest(t *testing.T) {
	fixture := newServerFixture()

	recorder := fixture.do(nethttp.MethodPost, "/api/v1/orders", `{"customer_name": `)

	assert.Equal(t, nethttp.StatusBadRequest, recorder.Code)
}

func TestServer_CreateOrder_BadProductID_ShouldReturnBadRequest(t *testing.T) {
	fixture := newServerFixture()

	body := `{
		"customer_name": "Ann Chen",
		"phone": "0912345678",
		"address": "12 Market St",
		"items": [{"product_id": "not-a-uuid", "quantity": 2, "unit_price": 90}],
		"delivery_fee": 60,
		"total_amount": 240,
		"payment_method": "cash"
	}`

	recorder := fixture.do(nethttp.MethodPost, "/api/v1/orders", body)

	assert.Equal(t, nethttp.StatusBadRequest, recorder.Code)
}

func TestServer_CreateOrder_WindowClosed_ShouldReturnUnprocessable(t *testing.T) {
	fixture := newServerFixture()
	fixture.createOrder.err = commands.ErrOrderWindowClosed

	body := `{
		"customer_name": "Ann Chen",
		"phone": "0912345678",
		"address": "12 Market St",
		"items": [{"product_id": "` + kernel.NewUUID().String() + `", "quantity": 2, "unit_price": 90}],
		"delivery_fee": 60,
		"total_amount": 240,
		"payment_method": "cash"
	}`

	recorder := fixture.do(nethttp.MethodPost, "/api/v1/orders", body)

	assert.Equal(t, nethttp.StatusUnprocessableEntity, recorder.Code)
}

func TestServer_ChangeOrderStatus_AdminActor_Success(t *testing.T) {
	fixture := newServerFixture()
	updated := sampleOrder(t)
	fixture.changeStatus.result = updated

	body := `{"status": "preparing", "reason": "packing", "actor": {"type": "admin"}}`
	recorder := fixture.do(nethttp.MethodPatch,
		"/api/v1/orders/"+updated.ID().String()+"/status", body)

	require.Equal(t, nethttp.StatusOK, recorder.Code)

	var response httpadapter.OrderResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, updated.ID().String(), response.ID)
}

func TestServer_ChangeOrderStatus_UnknownActorType_ShouldReturnBadRequest(t *testing.T) {
	fixture := newServerFixture()

	body := `{"status": "preparing", "actor": {"type": "intern"}}`
	recorder := fixture.do(nethttp.MethodPatch,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/status", body)

	assert.Equal(t, nethttp.StatusBadRequest, recorder.Code)
}

func TestServer_ChangeOrderStatus_UnknownStatus_ShouldReturnBadRequest(t *testing.T) {
	fixture := newServerFixture()

	body := `{"status": "teleporting", "actor": {"type": "admin"}}`
	recorder := fixture.do(nethttp.MethodPatch,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/status", body)

	assert.Equal(t, nethttp.StatusBadRequest, recorder.Code)
}

func TestServer_ChangeOrderStatus_AlreadyClaimed_ShouldReturnConflict(t *testing.T) {
	fixture := newServerFixture()
	fixture.changeStatus.err = order.ErrAlreadyClaimed

	body := `{"status": "delivering", "actor": {"type": "driver", "driver_id": "` +
		kernel.NewUUID().String() + `"}}`
	recorder := fixture.do(nethttp.MethodPatch,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/status", body)

	assert.Equal(t, nethttp.StatusConflict, recorder.Code)
}

func TestServer_ChangeOrderStatus_NotAssigned_ShouldReturnForbidden(t *testing.T) {
	fixture := newServerFixture()
	fixture.changeStatus.err = order.ErrNotAssignedToDriver

	body := `{"status": "ready", "actor": {"type": "driver", "driver_id": "` +
		kernel.NewUUID().String() + `"}}`
	recorder := fixture.do(nethttp.MethodPatch,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/status", body)

	assert.Equal(t, nethttp.StatusForbidden, recorder.Code)
}

func TestServer_ChangeOrderStatus_VersionConflict_ShouldReturnConflict(t *testing.T) {
	fixture := newServerFixture()
	fixture.changeStatus.err = errs.NewVersionIsInvalidErrorWithCause("order")

	body := `{"status": "preparing", "actor": {"type": "admin"}}`
	recorder := fixture.do(nethttp.MethodPatch,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/status", body)

	assert.Equal(t, nethttp.StatusConflict, recorder.Code)
}

func TestServer_CancelOrder_Success(t *testing.T) {
	fixture := newServerFixture()
	cancelled := sampleOrder(t)
	fixture.cancelOrder.result = cancelled

	recorder := fixture.do(nethttp.MethodPost,
		"/api/v1/orders/"+cancelled.ID().String()+"/cancel", `{"reason": "customer request"}`)

	assert.Equal(t, nethttp.StatusOK, recorder.Code)
}

func TestServer_CancelOrder_InvalidState_ShouldReturnConflict(t *testing.T) {
	fixture := newServerFixture()
	fixture.cancelOrder.err = commands.ErrInvalidStateForCancellation

	recorder := fixture.do(nethttp.MethodPost,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/cancel", `{}`)

	assert.Equal(t, nethttp.StatusConflict, recorder.Code)
}

func TestServer_CancelOrder_NotFound_ShouldReturnNotFound(t *testing.T) {
	fixture := newServerFixture()
	fixture.cancelOrder.err = errs.NewObjectNotFoundError("order", kernel.NewUUID().String())

	recorder := fixture.do(nethttp.MethodPost,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/cancel", `{}`)

	assert.Equal(t, nethttp.StatusNotFound, recorder.Code)
}

func TestServer_ReportDriverLocation_Success(t *testing.T) {
	fixture := newServerFixture()

	driverID := kernel.NewUUID()
	recorder := fixture.do(nethttp.MethodPost,
		"/api/v1/drivers/"+driverID.String()+"/location", `{"lat": 24.163, "lng": 120.647}`)

	assert.Equal(t, nethttp.StatusNoContent, recorder.Code)
	assert.Equal(t, driverID, fixture.reportLocation.cmd.DriverID())
}

func TestServer_ReportDriverLocation_BadCoordinates_ShouldReturnBadRequest(t *testing.T) {
	fixture := newServerFixture()

	recorder := fixture.do(nethttp.MethodPost,
		"/api/v1/drivers/"+kernel.NewUUID().String()+"/location", `{"lat": 95, "lng": 120.647}`)

	assert.Equal(t, nethttp.StatusBadRequest, recorder.Code)
}

func TestServer_PlanRoute_Success(t *testing.T) {
	fixture := newServerFixture()

	pickup, err := kernel.NewGeoPoint(24.162, 120.685)
	require.NoError(t, err)
	stop, err := kernel.NewGeoPoint(24.165, 120.686)
	require.NoError(t, err)

	stopID := kernel.NewUUID()
	fixture.planRoute.result = &services.RoutePlan{
		PickupName:    "Main Depot",
		PickupAddress: "1 Depot Rd",
		Pickup:        pickup,
		Stops: []services.RouteStop{{
			OrderID:         stopID,
			Sequence:        1,
			Location:        stop,
			DistanceMeters:  349,
			DurationSeconds: 42,
		}},
		TotalDistanceMeters:  349,
		TotalDurationSeconds: 42,
	}

	body := `{"order_ids": ["` + stopID.String() + `"]}`
	recorder := fixture.do(nethttp.MethodPost, "/api/v1/routes/plan", body)

	require.Equal(t, nethttp.StatusOK, recorder.Code)

	var response httpadapter.RoutePlanResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "Main Depot", response.PickupName)
	require.Len(t, response.Stops, 1)
	assert.Equal(t, stopID.String(), response.Stops[0].OrderID)
	assert.Equal(t, 349, response.TotalDistanceMeters)
}

func TestServer_PlanRoute_NoOrders_ShouldReturnBadRequest(t *testing.T) {
	fixture := newServerFixture()

	recorder := fixture.do(nethttp.MethodPost, "/api/v1/routes/plan", `{"order_ids": []}`)

	assert.Equal(t, nethttp.StatusBadRequest, recorder.Code)
}

func TestServer_PlanRoute_CoordinatesMissing_ShouldReturnUnprocessable(t *testing.T) {
	fixture := newServerFixture()
	fixture.planRoute.err = queries.ErrCoordinatesMissing

	body := `{"order_ids": ["` + kernel.NewUUID().String() + `"]}`
	recorder := fixture.do(nethttp.MethodPost, "/api/v1/routes/plan", body)

	assert.Equal(t, nethttp.StatusUnprocessableEntity, recorder.Code)
}

func TestServer_RecommendBatches_PassesLimit(t *testing.T) {
	fixture := newServerFixture()
	fixture.recommendBatches.result = services.BatchResult{}

	recorder := fixture.do(nethttp.MethodGet, "/api/v1/batches/recommend?limit=5", "")

	assert.Equal(t, nethttp.StatusOK, recorder.Code)
	assert.Equal(t, 5, fixture.recommendBatches.query.Limit())
}

func TestServer_RecommendBatches_InvalidLimit_ShouldReturnBadRequest(t *testing.T) {
	fixture := newServerFixture()

	recorder := fixture.do(nethttp.MethodGet, "/api/v1/batches/recommend?limit=lots", "")

	assert.Equal(t, nethttp.StatusBadRequest, recorder.Code)
}

func TestServer_MapSnapshot_ForceFlag(t *testing.T) {
	fixture := newServerFixture()
	fixture.mapSnapshot.result = &queries.MapSnapshot{
		GeneratedAt:         time.Date(2025, 7, 10, 10, 30, 0, 0, time.UTC),
		PollIntervalSeconds: 30,
	}

	recorder := fixture.do(nethttp.MethodGet, "/api/v1/map/snapshot?force=true", "")

	require.Equal(t, nethttp.StatusOK, recorder.Code)
	assert.True(t, fixture.mapSnapshot.query.Force())

	var response httpadapter.MapSnapshotResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 30, response.PollIntervalSeconds)
}

func TestServer_MapSnapshot_ExternalFailure_ShouldReturnBadGateway(t *testing.T) {
	fixture := newServerFixture()
	fixture.mapSnapshot.err = errs.NewExternalServiceError("postgres", nil)

	recorder := fixture.do(nethttp.MethodGet, "/api/v1/map/snapshot", "")

	assert.Equal(t, nethttp.StatusBadGateway, recorder.Code)
}
