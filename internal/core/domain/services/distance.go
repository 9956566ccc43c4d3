package services

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
)

// DefaultAverageSpeedKmh is the speed assumed when estimating leg durations
// from great-circle distances. Urban delivery rounds rarely sustain more.
const DefaultAverageSpeedKmh = 30.0

// Leg is one distance/duration segment from the current position to a
// candidate stop.
type Leg struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// DistanceEstimator produces travel legs from one origin to a set of
// destinations. One call covers all candidates of a single greedy step, so
// matrix-capable providers answer it with a single request.
type DistanceEstimator interface {
	Legs(ctx context.Context, origin kernel.GeoPoint, destinations []kernel.GeoPoint) ([]Leg, error)
}

// HaversineEstimator is the heuristic estimator: great-circle distance with a
// fixed average travel speed. It needs no network and never fails on valid points.
type HaversineEstimator struct {
	averageSpeedKmh float64
}

// NewHaversineEstimator creates the heuristic estimator. Non-positive speeds
// fall back to DefaultAverageSpeedKmh.
func NewHaversineEstimator(averageSpeedKmh float64) HaversineEstimator {
	if averageSpeedKmh <= 0 {
		averageSpeedKmh = DefaultAverageSpeedKmh
	}
	return HaversineEstimator{averageSpeedKmh: averageSpeedKmh}
}

// Legs computes great-circle legs from origin to every destination.
func (e HaversineEstimator) Legs(
	_ context.Context, origin kernel.GeoPoint, destinations []kernel.GeoPoint,
) ([]Leg, error) {
	legs := make([]Leg, 0, len(destinations))
	metersPerSecond := e.averageSpeedKmh * 1000 / 3600

	for _, dest := range destinations {
		distance, err := origin.HaversineTo(dest)
		if err != nil {
			return nil, err
		}
		legs = append(legs, Leg{
			DistanceMeters:  distance,
			DurationSeconds: distance / metersPerSecond,
		})
	}

	return legs, nil
}

// FallbackEstimator composes a provider-backed estimator with the haversine
// heuristic: any primary failure (including timeouts) transparently falls
// through to the fallback, so callers never handle provider outages themselves.
// A nil primary degrades to fallback-only operation.
type FallbackEstimator struct {
	primary  DistanceEstimator
	fallback DistanceEstimator
	logger   *slog.Logger
}

// NewFallbackEstimator creates the composed estimator.
func NewFallbackEstimator(primary DistanceEstimator, fallback DistanceEstimator, logger *slog.Logger) FallbackEstimator {
	return FallbackEstimator{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With("component", "distance_estimator"),
	}
}

// Legs queries the primary estimator and degrades to the fallback on failure.
func (e FallbackEstimator) Legs(
	ctx context.Context, origin kernel.GeoPoint, destinations []kernel.GeoPoint,
) ([]Leg, error) {
	if e.primary != nil {
		legs, err := e.primary.Legs(ctx, origin, destinations)
		if err == nil {
			return legs, nil
		}
		e.logger.WarnContext(ctx, "distance provider failed, using haversine fallback", "error", err)
	}

	return e.fallback.Legs(ctx, origin, destinations)
}
