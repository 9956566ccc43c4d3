package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrPlanRouteQueryIsNotConstructed = errors.New(
		"PlanRouteQuery must be created via NewPlanRouteQuery constructor",
	)

	// ErrNoOrdersSelected is returned when route planning is requested with
	// an empty order selection.
	ErrNoOrdersSelected = errors.New("no orders selected for route planning")
)

// PlanRouteQuery requests a delivery route over a set of selected orders.
type PlanRouteQuery struct { //nolint:recvcheck //using for validation
	orderIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewPlanRouteQuery creates a route planning query.
// At least one order must be selected and every identifier must be valid.
func NewPlanRouteQuery(orderIDs []kernel.UUID) (PlanRouteQuery, error) {
	if len(orderIDs) == 0 {
		return PlanRouteQuery{}, ErrNoOrdersSelected
	}

	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return PlanRouteQuery{}, err
		}
	}

	return PlanRouteQuery{
		orderIDs: orderIDs,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q PlanRouteQuery) Validate() error {
	return q.guard.Validate(ErrPlanRouteQueryIsNotConstructed)
}

// OrderIDs returns the selected order identifiers.
func (q PlanRouteQuery) OrderIDs() []kernel.UUID {
	return q.orderIDs
}
