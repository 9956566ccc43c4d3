package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/dispatch"
)

// DispatchConfigRepository defines the persistence contract for the singleton
// dispatch configuration row.
type DispatchConfigRepository interface {
	// Get retrieves the current dispatch configuration. Returns
	// errs.ErrObjectNotFound when it was never saved.
	Get(ctx context.Context) (*dispatch.Config, error)

	// Save upserts the dispatch configuration.
	Save(ctx context.Context, config *dispatch.Config) error
}
