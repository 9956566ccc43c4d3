// Package ports defines repository and provider interfaces for the
// fulfillment domain. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying orders by status
// and geocoding state.
type OrderRepository interface {
	// Add persists a new order aggregate together with its items and the
	// initial history entry.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. Updates are
	// version-checked: a concurrent modification surfaces as
	// errs.ErrVersionIsInvalid. New history entries accumulated since the
	// aggregate was loaded are inserted alongside.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, complete
	// with items and status history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByIDs retrieves the orders with the given identifiers. Missing
	// identifiers are reported as errs.ErrObjectNotFound.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error)

	// GetAllInStatus retrieves all orders currently in the given status,
	// oldest update first.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// GetAllMissingCoordinates retrieves orders that have no resolved
	// location yet, for geocoding backfill.
	GetAllMissingCoordinates(ctx context.Context, limit int) ([]*order.Order, error)
}
