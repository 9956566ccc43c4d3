package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

var (
	// ErrAlreadyClaimed is returned when a driver touches an order that is
	// assigned to a different driver.
	ErrAlreadyClaimed = errors.New("order is already claimed by another driver")

	// ErrNotAssignedToDriver is returned when a driver tries a status change
	// other than delivering/delivered on an order they do not own.
	ErrNotAssignedToDriver = errors.New("order is not assigned to this driver")
)

// Actor identifies who requests a status change. It is a sealed tagged union:
// the guard method is unexported, so the only variants are AdminActor,
// DriverActor, and SystemActor, and the guard set stays compiler-checked.
type Actor interface {
	// guardTransition applies the actor's authorization rule for moving o to
	// the target status, including the side effects the rule carries
	// (driver auto-claim, admin reset clearing the assignment).
	guardTransition(o *Order, to Status) error
}

// AdminActor represents back-office staff. Admins may use any edge the table
// allows; resetting an order to pending clears its driver assignment.
type AdminActor struct{}

func (AdminActor) guardTransition(o *Order, to Status) error {
	if to == Pending {
		o.driverID = nil
	}
	return nil
}

// DriverActor represents a delivery driver identified by ID.
//
// Rules:
//   - a different driver already assigned: ErrAlreadyClaimed
//   - unassigned order moved to delivering or delivered: this driver claims it
//   - unassigned order moved anywhere else: ErrNotAssignedToDriver
//   - the assigned driver itself: allowed
type DriverActor struct {
	ID kernel.UUID
}

func (d DriverActor) guardTransition(o *Order, to Status) error {
	if err := d.ID.Validate(); err != nil {
		return err
	}

	if o.driverID != nil {
		if !o.driverID.IsEqual(d.ID) {
			return ErrAlreadyClaimed
		}
		return nil
	}

	if to == Delivering || to == Delivered {
		id := d.ID
		o.driverID = &id
		return nil
	}

	return ErrNotAssignedToDriver
}

// SystemActor represents internal callers (cancellation flows, jobs).
// No additional guard beyond the transition table.
type SystemActor struct{}

func (SystemActor) guardTransition(_ *Order, _ Status) error {
	return nil
}
