package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Window classifies when an incoming order can be scheduled.
type Window int

const (
	// WindowClosed means ordering is not possible right now.
	WindowClosed Window = iota
	// WindowCurrentDay means the order can be delivered the same day.
	WindowCurrentDay
	// WindowNextDay means the order is accepted as a pre-order for the
	// next business day.
	WindowNextDay
)

// OrderTiming is the hours oracle's verdict for a prospective order.
type OrderTiming struct {
	Valid        bool
	Window       Window
	DeliveryDate time.Time
}

// BusinessHoursOracle decides whether ordering is currently allowed and which
// delivery window applies. Implementations may consult a clock, a calendar or
// an external service.
type BusinessHoursOracle interface {
	CheckOrderTiming(ctx context.Context, at time.Time) (OrderTiming, error)
}

// Geocoder resolves a street address to coordinates. Implementations are
// external providers; failures and misses are expected and reported as
// errs.ErrExternalService or errs.ErrObjectNotFound respectively.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}

// EventPublisher delivers domain events to interested consumers.
// Publishing is fire-and-forget from the caller's perspective: handlers invoke
// it after commit and only log failures.
type EventPublisher interface {
	Publish(ctx context.Context, eventName string, payload any) error
}
