package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReportDriverLocationCommandIsNotConstructed = errors.New(
	"ReportDriverLocationCommand must be created via NewReportDriverLocationCommand constructor",
)

// ReportDriverLocationCommand represents a driver position ping.
type ReportDriverLocationCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewReportDriverLocationCommand creates a position report command.
// Coordinates go through GeoPoint validation, so out-of-range and null-island
// positions are rejected here.
func NewReportDriverLocationCommand(
	driverID kernel.UUID, lat float64, lng float64,
) (ReportDriverLocationCommand, error) {
	cmd := ReportDriverLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDriverID(driverID); err != nil {
		return ReportDriverLocationCommand{}, err
	}

	location, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return ReportDriverLocationCommand{}, err
	}
	cmd.location = location

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportDriverLocationCommandIsNotConstructed)
}

// DriverID returns the reporting driver's identifier.
func (c ReportDriverLocationCommand) DriverID() kernel.UUID { return c.driverID }

// Location returns the reported position.
func (c ReportDriverLocationCommand) Location() kernel.GeoPoint { return c.location }

func (c *ReportDriverLocationCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
