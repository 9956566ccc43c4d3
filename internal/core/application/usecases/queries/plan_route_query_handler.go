package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

var (
	// ErrPickupNotConfigured is returned when the dispatch configuration has
	// no usable pickup point, so no route can start anywhere.
	ErrPickupNotConfigured = errors.New("pickup location is not configured")

	// ErrCoordinatesMissing is returned when a selected order has no
	// resolved coordinates and geocoding could not supply them.
	ErrCoordinatesMissing = errors.New("order coordinates are missing")
)

// PlanRouteQueryHandler computes a delivery route for a set of orders.
//
// Orders without coordinates get a geocoding attempt first; successful
// results are persisted so later plans skip the provider. The route itself is
// ephemeral and recomputed per request.
type PlanRouteQueryHandler struct {
	uowFactory RouteUoWFactory
	geocoder   ports.Geocoder
	planner    services.RoutePlanner
	logger     *slog.Logger
	now        func() time.Time
}

// NewPlanRouteQueryHandler creates a handler for route planning queries.
// The geocoder may be nil; orders without coordinates then fail with
// ErrCoordinatesMissing.
func NewPlanRouteQueryHandler(
	uowFactory RouteUoWFactory,
	geocoder ports.Geocoder,
	planner services.RoutePlanner,
	logger *slog.Logger,
	now func() time.Time,
) PlanRouteQueryHandler {
	if now == nil {
		now = time.Now
	}
	return PlanRouteQueryHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		planner:    planner,
		logger:     logger.With("component", "plan_route_handler"),
		now:        now,
	}
}

// Handle resolves the selected orders and computes the route.
func (h PlanRouteQueryHandler) Handle(ctx context.Context, query PlanRouteQuery) (*services.RoutePlan, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	orders, err := orderRepo.GetByIDs(ctx, query.OrderIDs())
	if err != nil {
		return nil, err
	}

	config, err := uow.DispatchConfigRepository().Get(ctx)
	if err != nil {
		return nil, err
	}
	if !config.PickupConfigured() {
		return nil, ErrPickupNotConfigured
	}

	destinations, geocoded, err := h.resolveDestinations(ctx, orderRepo, orders)
	if err != nil {
		return nil, err
	}

	// Commit only matters when geocoding updated rows.
	if geocoded > 0 {
		if err = uow.Commit(ctx); err != nil {
			return nil, err
		}
	}

	return h.planner.Plan(ctx,
		config.PickupName(), config.PickupAddress(), *config.Pickup(), destinations)
}

// resolveDestinations turns orders into route destinations, geocoding and
// persisting any that still lack coordinates. Returns how many orders were
// geocoded in the process.
func (h PlanRouteQueryHandler) resolveDestinations(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	orders []*order.Order,
) ([]services.Destination, int, error) {
	destinations := make([]services.Destination, 0, len(orders))
	geocoded := 0

	for _, o := range orders {
		if o.Location() == nil {
			if h.geocoder == nil {
				return nil, 0, fmt.Errorf("%w: order %s", ErrCoordinatesMissing, o.ID())
			}

			point, err := h.geocoder.Geocode(ctx, o.Address())
			if err != nil {
				h.logger.WarnContext(ctx, "geocoding failed",
					"order_id", o.ID().String(), "error", err)
				return nil, 0, fmt.Errorf("%w: order %s", ErrCoordinatesMissing, o.ID())
			}

			if err = o.MarkGeocoded(point, h.now()); err != nil {
				return nil, 0, err
			}
			if err = orderRepo.Update(ctx, o); err != nil {
				return nil, 0, err
			}
			geocoded++
		}

		destinations = append(destinations, services.Destination{
			OrderID:  o.ID(),
			Location: *o.Location(),
		})
	}

	return destinations, geocoded, nil
}
