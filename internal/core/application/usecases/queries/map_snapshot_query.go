package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrMapSnapshotQueryIsNotConstructed = errors.New(
	"MapSnapshotQuery must be created via NewMapSnapshotQuery constructor",
)

// MapSnapshotQuery requests the fleet map snapshot. Force bypasses the cache
// and regenerates immediately.
type MapSnapshotQuery struct {
	force bool

	guard guard.ConstructorGuard
}

// NewMapSnapshotQuery creates a snapshot query.
func NewMapSnapshotQuery(force bool) MapSnapshotQuery {
	return MapSnapshotQuery{
		force: force,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q MapSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrMapSnapshotQueryIsNotConstructed)
}

// Force reports whether the cached snapshot should be bypassed.
func (q MapSnapshotQuery) Force() bool {
	return q.force
}

// DriverMarker is one driver position on the fleet map.
type DriverMarker struct {
	ID         kernel.UUID
	Name       string
	Status     string
	Lat        float64
	Lng        float64
	ReportedAt time.Time
}

// OrderMarker is one active delivery on the fleet map. Only geocoded orders
// in ready or delivering status appear.
type OrderMarker struct {
	ID           kernel.UUID
	CustomerName string
	Address      string
	Status       string
	Lat          float64
	Lng          float64
}

// MapSnapshot is the cached fleet map payload. Within the TTL every caller
// receives the same snapshot, GeneratedAt included.
type MapSnapshot struct {
	GeneratedAt         time.Time
	PollIntervalSeconds int
	Drivers             []DriverMarker
	Orders              []OrderMarker
}
