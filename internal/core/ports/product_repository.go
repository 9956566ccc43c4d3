package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for the product catalog.
type ProductRepository interface {
	// Get retrieves a product by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetByIDs retrieves the products with the given identifiers. Missing
	// identifiers are reported as errs.ErrObjectNotFound.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error)

	// DecrementStock atomically subtracts quantity from a product's stock.
	// The decrement only applies when enough stock remains; otherwise the
	// call fails with errs.ErrBusinessRuleViolated and the row is untouched.
	DecrementStock(ctx context.Context, id kernel.UUID, quantity int) error

	// RestoreStock adds quantity back to a product's stock, used when an
	// order is cancelled before delivery.
	RestoreStock(ctx context.Context, id kernel.UUID, quantity int) error
}
