package services

import (
	"context"
	"math"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Destination is a delivery stop candidate: an order with resolved coordinates.
type Destination struct {
	OrderID  kernel.UUID
	Location kernel.GeoPoint
}

// RouteStop is one ordered stop of a computed route. Distance and duration
// cover the leg from the previous position (pickup for the first stop).
type RouteStop struct {
	OrderID         kernel.UUID
	Sequence        int
	Location        kernel.GeoPoint
	DistanceMeters  int
	DurationSeconds int
}

// RoutePlan is the ephemeral result of route planning: pickup info, stops in
// visiting order, and rounded totals. It is computed per request and never persisted.
type RoutePlan struct {
	PickupName           string
	PickupAddress        string
	Pickup               kernel.GeoPoint
	Stops                []RouteStop
	TotalDistanceMeters  int
	TotalDurationSeconds int
}

// RoutePlanner builds delivery routes with deterministic greedy
// nearest-neighbor construction. The heuristic repeatedly advances to the
// closest unvisited stop; it is not a globally optimal solver.
type RoutePlanner struct {
	estimator DistanceEstimator
}

// NewRoutePlanner creates a planner using the given distance estimation strategy.
func NewRoutePlanner(estimator DistanceEstimator) RoutePlanner {
	return RoutePlanner{estimator: estimator}
}

// Plan computes a route from pickup through every destination.
//
// Each greedy step asks the estimator for legs from the current position to
// all remaining stops in one call and selects the minimum distance; ties keep
// the earliest destination in the original input order, so results are
// deterministic. Per-leg values are rounded to integers and totals are the
// sums of the rounded legs.
func (p RoutePlanner) Plan(
	ctx context.Context,
	pickupName string,
	pickupAddress string,
	pickup kernel.GeoPoint,
	destinations []Destination,
) (*RoutePlan, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}
	if len(destinations) == 0 {
		return nil, errs.NewValueIsRequiredError("destinations")
	}
	for _, d := range destinations {
		if err := d.Location.Validate(); err != nil {
			return nil, err
		}
	}

	plan := &RoutePlan{
		PickupName:    pickupName,
		PickupAddress: pickupAddress,
		Pickup:        pickup,
		Stops:         make([]RouteStop, 0, len(destinations)),
	}

	current := pickup
	remaining := make([]Destination, len(destinations))
	copy(remaining, destinations)

	for len(remaining) > 0 {
		points := make([]kernel.GeoPoint, len(remaining))
		for i, d := range remaining {
			points[i] = d.Location
		}

		legs, err := p.estimator.Legs(ctx, current, points)
		if err != nil {
			return nil, err
		}
		if len(legs) != len(remaining) {
			return nil, errs.NewExternalServiceError("distance estimator", nil)
		}

		// Strict less-than keeps the first occurrence on ties.
		best := 0
		for i := 1; i < len(legs); i++ {
			if legs[i].DistanceMeters < legs[best].DistanceMeters {
				best = i
			}
		}

		chosen := remaining[best]
		leg := legs[best]
		stop := RouteStop{
			OrderID:         chosen.OrderID,
			Sequence:        len(plan.Stops) + 1,
			Location:        chosen.Location,
			DistanceMeters:  int(math.Round(leg.DistanceMeters)),
			DurationSeconds: int(math.Round(leg.DurationSeconds)),
		}
		plan.Stops = append(plan.Stops, stop)
		plan.TotalDistanceMeters += stop.DistanceMeters
		plan.TotalDurationSeconds += stop.DurationSeconds

		current = chosen.Location
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return plan, nil
}
