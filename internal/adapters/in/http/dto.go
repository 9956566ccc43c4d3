package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CreateOrderItemRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type CreateOrderRequest struct {
	CustomerName  string                   `json:"customer_name"`
	Phone         string                   `json:"phone"`
	Address       string                   `json:"address"`
	Items         []CreateOrderItemRequest `json:"items"`
	DeliveryFee   float64                  `json:"delivery_fee"`
	TotalAmount   float64                  `json:"total_amount"`
	PaymentMethod string                   `json:"payment_method"`
}

type ActorRequest struct {
	Type     string `json:"type"`
	DriverID string `json:"driver_id,omitempty"`
}

type ChangeOrderStatusRequest struct {
	Status string       `json:"status"`
	Reason string       `json:"reason,omitempty"`
	Actor  ActorRequest `json:"actor"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ReportDriverLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PlanRouteRequest struct {
	OrderIDs []string `json:"order_ids"`
}

type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerName  string              `json:"customer_name"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	Status        string              `json:"status"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      float64             `json:"subtotal"`
	DeliveryFee   float64             `json:"delivery_fee"`
	TotalAmount   float64             `json:"total_amount"`
	PaymentMethod string              `json:"payment_method"`
	DriverID      *string             `json:"driver_id,omitempty"`
	DeliveryDate  time.Time           `json:"delivery_date"`
	IsPreOrder    bool                `json:"is_pre_order"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Version       int64               `json:"version"`
}

type GeoPointResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RouteStopResponse struct {
	OrderID         string           `json:"order_id"`
	Sequence        int              `json:"sequence"`
	Location        GeoPointResponse `json:"location"`
	DistanceMeters  int              `json:"distance_meters"`
	DurationSeconds int              `json:"duration_seconds"`
}

type RoutePlanResponse struct {
	PickupName           string              `json:"pickup_name"`
	PickupAddress        string              `json:"pickup_address"`
	Pickup               GeoPointResponse    `json:"pickup"`
	Stops                []RouteStopResponse `json:"stops"`
	TotalDistanceMeters  int                 `json:"total_distance_meters"`
	TotalDurationSeconds int                 `json:"total_duration_seconds"`
}

type BatchOrderResponse struct {
	OrderID      string    `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Address      string    `json:"address"`
	TotalAmount  float64   `json:"total_amount"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BatchResponse struct {
	ID          string               `json:"id"`
	Orders      []BatchOrderResponse `json:"orders"`
	TotalAmount float64              `json:"total_amount"`
	Route       *RoutePlanResponse   `json:"route,omitempty"`
}

type BatchResultResponse struct {
	Batches   []BatchResponse      `json:"batches"`
	Leftovers []BatchOrderResponse `json:"leftovers"`
}

type DriverMarkerResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	ReportedAt time.Time `json:"reported_at"`
}

type OrderMarkerResponse struct {
	ID           string  `json:"id"`
	CustomerName string  `json:"customer_name"`
	Address      string  `json:"address"`
	Status       string  `json:"status"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

type MapSnapshotResponse struct {
	GeneratedAt         time.Time              `json:"generated_at"`
	PollIntervalSeconds int                    `json:"poll_interval_seconds"`
	Drivers             []DriverMarkerResponse `json:"drivers"`
	Orders              []OrderMarkerResponse  `json:"orders"`
}

func orderToResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID().String(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			Unit:      item.Unit(),
			UnitPrice: item.UnitPrice(),
			LineTotal: item.LineTotal(),
		})
	}

	var driverID *string
	if o.Driver() != nil {
		s := o.Driver().String()
		driverID = &s
	}

	return OrderResponse{
		ID:            o.ID().String(),
		CustomerName:  o.CustomerName(),
		Phone:         o.Phone(),
		Address:       o.Address(),
		Status:        o.Status().String(),
		Items:         items,
		Subtotal:      o.Subtotal(),
		DeliveryFee:   o.DeliveryFee(),
		TotalAmount:   o.TotalAmount(),
		PaymentMethod: o.PaymentMethod(),
		DriverID:      driverID,
		DeliveryDate:  o.DeliveryDate(),
		IsPreOrder:    o.IsPreOrder(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
		Version:       o.Version(),
	}
}

func routePlanToResponse(plan *services.RoutePlan) *RoutePlanResponse {
	if plan == nil {
		return nil
	}

	stops := make([]RouteStopResponse, 0, len(plan.Stops))
	for _, stop := range plan.Stops {
		stops = append(stops, RouteStopResponse{
			OrderID:  stop.OrderID.String(),
			Sequence: stop.Sequence,
			Location: GeoPointResponse{
				Lat: stop.Location.Lat(),
				Lng: stop.Location.Lng(),
			},
			DistanceMeters:  stop.DistanceMeters,
			DurationSeconds: stop.DurationSeconds,
		})
	}

	return &RoutePlanResponse{
		PickupName:    plan.PickupName,
		PickupAddress: plan.PickupAddress,
		Pickup: GeoPointResponse{
			Lat: plan.Pickup.Lat(),
			Lng: plan.Pickup.Lng(),
		},
		Stops:                stops,
		TotalDistanceMeters:  plan.TotalDistanceMeters,
		TotalDurationSeconds: plan.TotalDurationSeconds,
	}
}

func batchOrdersToResponse(summaries []services.OrderSummary) []BatchOrderResponse {
	response := make([]BatchOrderResponse, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, BatchOrderResponse{
			OrderID:      summary.OrderID.String(),
			CustomerName: summary.CustomerName,
			Address:      summary.Address,
			TotalAmount:  summary.TotalAmount,
			UpdatedAt:    summary.UpdatedAt,
		})
	}
	return response
}

func batchResultToResponse(result services.BatchResult) BatchResultResponse {
	batches := make([]BatchResponse, 0, len(result.Batches))
	for _, batch := range result.Batches {
		batches = append(batches, BatchResponse{
			ID:          batch.ID.String(),
			Orders:      batchOrdersToResponse(batch.Orders),
			TotalAmount: batch.TotalAmount,
			Route:       routePlanToResponse(batch.Route),
		})
	}

	return BatchResultResponse{
		Batches:   batches,
		Leftovers: batchOrdersToResponse(result.Leftovers),
	}
}

func snapshotToResponse(snapshot *queries.MapSnapshot) MapSnapshotResponse {
	drivers := make([]DriverMarkerResponse, 0, len(snapshot.Drivers))
	for _, marker := range snapshot.Drivers {
		drivers = append(drivers, DriverMarkerResponse{
			ID:         marker.ID.String(),
			Name:       marker.Name,
			Status:     marker.Status,
			Lat:        marker.Lat,
			Lng:        marker.Lng,
			ReportedAt: marker.ReportedAt,
		})
	}

	orders := make([]OrderMarkerResponse, 0, len(snapshot.Orders))
	for _, marker := range snapshot.Orders {
		orders = append(orders, OrderMarkerResponse{
			ID:           marker.ID.String(),
			CustomerName: marker.CustomerName,
			Address:      marker.Address,
			Status:       marker.Status,
			Lat:          marker.Lat,
			Lng:          marker.Lng,
		})
	}

	return MapSnapshotResponse{
		GeneratedAt:         snapshot.GeneratedAt,
		PollIntervalSeconds: snapshot.PollIntervalSeconds,
		Drivers:             drivers,
		Orders:              orders,
	}
}
