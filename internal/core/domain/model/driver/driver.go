// Package driver contains the delivery driver aggregate: identity, duty
// status, and the last reported position feeding the live map snapshot.
package driver

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrDriverIsNotConstructed is returned when a Driver was not created via
// NewDriver or RestoreDriver.
var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")

// Status is the driver duty state.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Offline drivers are not taking orders and are hidden from dispatch.
	Offline

	// Available drivers can claim ready orders.
	Available

	// Busy drivers are on a delivery round.
	Busy
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Offline:   "offline",
		Available: "available",
		Busy:      "busy",
	}
}

// StatusFromString parses the persisted string code of a driver status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("driver status",
		fmt.Errorf("%q is not a valid driver status", s))
}

// Validate checks if the Status is one of the defined duty states.
func (s Status) Validate() error {
	if s != Offline && s != Available && s != Busy {
		return errs.NewValueIsInvalidErrorWithCause("driver status",
			fmt.Errorf("%d is not a valid driver status", s))
	}
	return nil
}

// String returns the lowercase code of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Driver represents a delivery driver.
type Driver struct {
	id         kernel.UUID
	name       string
	phone      string
	status     Status
	location   *kernel.GeoPoint
	reportedAt *time.Time

	isConstructed bool
}

// NewDriver creates a new driver in Offline status with no known position.
func NewDriver(id kernel.UUID, name string, phone string) (*Driver, error) {
	d := &Driver{
		status:        Offline,
		isConstructed: true,
	}

	if err := errors.Join(d.setID(id), d.setName(name)); err != nil {
		return nil, err
	}
	d.phone = phone

	return d, nil
}

// RestoreDriver rehydrates a driver from persistence.
func RestoreDriver(
	id kernel.UUID,
	name string,
	phone string,
	status Status,
	location *kernel.GeoPoint,
	reportedAt *time.Time,
) (*Driver, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("driver name")
	}

	return &Driver{
		id:            id,
		name:          name,
		phone:         phone,
		status:        status,
		location:      location,
		reportedAt:    reportedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Driver was properly constructed.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID { return d.id }

// Name returns the driver's display name.
func (d *Driver) Name() string { return d.name }

// Phone returns the driver's contact number.
func (d *Driver) Phone() string { return d.phone }

// Status returns the current duty status.
func (d *Driver) Status() Status { return d.status }

// Location returns the last reported position, nil if never reported.
func (d *Driver) Location() *kernel.GeoPoint { return d.location }

// ReportedAt returns when the position was last reported, nil if never.
func (d *Driver) ReportedAt() *time.Time { return d.reportedAt }

// ReportLocation records a position ping. An offline driver reporting a
// position comes on duty as Available.
func (d *Driver) ReportLocation(p kernel.GeoPoint, at time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	d.location = &p
	d.reportedAt = &at
	if d.status == Offline {
		d.status = Available
	}
	return nil
}

// SetStatus changes the duty status.
func (d *Driver) SetStatus(status Status) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	d.status = status
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("driver name")
	}
	d.name = name
	return nil
}
