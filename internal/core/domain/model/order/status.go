package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// The only path to completion is the linear progression
//
//	pending ──> preparing ──> ready ──> delivering ──> delivered
//
// with problem and cancelled reachable from every active state. Which edges
// exist is decided by a TransitionTable, not by Status itself; see transitions.go.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every order awaiting kitchen/packing work.
	Pending

	// Preparing indicates staff are packing the order.
	Preparing

	// Ready indicates the order is packed and waiting to join a delivery round.
	Ready

	// Delivering indicates a driver has the order on the road.
	Delivering

	// Delivered is the terminal success state.
	Delivered

	// Problem marks an order that needs attention before it can proceed.
	Problem

	// Cancelled is the terminal state for withdrawn orders; stock may have
	// been restored depending on how far the order had progressed.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Preparing:  "preparing",
		Ready:      "ready",
		Delivering: "delivering",
		Delivered:  "delivered",
		Problem:    "problem",
		Cancelled:  "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		Preparing:  "preparing",
		Ready:      "ready",
		Delivering: "delivering",
		Delivered:  "delivered",
		Problem:    "problem",
		Cancelled:  "cancelled",
	}
}

// StatusFromString parses the persisted string code of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase wire/persistence code of the status.
// Implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsActive reports whether the order is still in flight: any valid,
// non-terminal state, including problem.
func (s Status) IsActive() bool {
	return s.Validate() == nil && !s.IsTerminal()
}
