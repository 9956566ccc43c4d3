// Package hours implements the business hours oracle on the local clock.
package hours

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Default window bounds, in hours of the day.
const (
	DefaultOpenHour   = 9
	DefaultCutoffHour = 16
	DefaultCloseHour  = 21
)

// ClockOracle decides order timing from the wall clock alone.
//
// Orders placed between the open hour and the cutoff are delivered the same
// day. Between the cutoff and the close hour they become pre-orders for the
// next day. Outside the open window ordering is closed.
type ClockOracle struct {
	openHour   int
	cutoffHour int
	closeHour  int
	location   *time.Location
}

// NewClockOracle creates the oracle. Hours must satisfy
// 0 <= open <= cutoff <= close <= 24. A nil location means local time.
func NewClockOracle(openHour int, cutoffHour int, closeHour int, location *time.Location) (*ClockOracle, error) {
	if location == nil {
		location = time.Local
	}

	if err := errors.Join(
		validateHour("openHour", openHour),
		validateHour("cutoffHour", cutoffHour),
		validateHour("closeHour", closeHour),
	); err != nil {
		return nil, err
	}
	if openHour > cutoffHour || cutoffHour > closeHour {
		return nil, errs.NewBusinessRuleViolationError("open <= cutoff <= close", "cutoffHour")
	}

	return &ClockOracle{
		openHour:   openHour,
		cutoffHour: cutoffHour,
		closeHour:  closeHour,
		location:   location,
	}, nil
}

// NewDefaultClockOracle creates the oracle with the default window bounds.
func NewDefaultClockOracle(location *time.Location) (*ClockOracle, error) {
	return NewClockOracle(DefaultOpenHour, DefaultCutoffHour, DefaultCloseHour, location)
}

// CheckOrderTiming classifies the given instant into an order window.
func (o *ClockOracle) CheckOrderTiming(_ context.Context, at time.Time) (ports.OrderTiming, error) {
	local := at.In(o.location)
	hour := local.Hour()
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, o.location)

	switch {
	case hour >= o.openHour && hour < o.cutoffHour:
		return ports.OrderTiming{
			Valid:        true,
			Window:       ports.WindowCurrentDay,
			DeliveryDate: today,
		}, nil
	case hour >= o.cutoffHour && hour < o.closeHour:
		return ports.OrderTiming{
			Valid:        true,
			Window:       ports.WindowNextDay,
			DeliveryDate: today.AddDate(0, 0, 1),
		}, nil
	default:
		return ports.OrderTiming{Valid: false, Window: ports.WindowClosed}, nil
	}
}

func validateHour(paramName string, hour int) error {
	if hour < 0 || hour > 24 {
		return errs.NewValueIsOutOfRangeError(paramName, hour, 0, 24)
	}
	return nil
}
