package queries

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrRecommendBatchesQueryIsNotConstructed = errors.New(
	"RecommendBatchesQuery must be created via NewRecommendBatchesQuery constructor",
)

// RecommendBatchesQuery requests delivery batch recommendations over the
// ready orders. Limit bounds how many batches come back; zero means the
// default.
type RecommendBatchesQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewRecommendBatchesQuery creates a batch recommendation query.
// A non-positive limit falls back to the default; oversized limits are capped
// by the batch builder.
func NewRecommendBatchesQuery(limit int) RecommendBatchesQuery {
	return RecommendBatchesQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q RecommendBatchesQuery) Validate() error {
	return q.guard.Validate(ErrRecommendBatchesQueryIsNotConstructed)
}

// Limit returns the requested maximum number of batches.
func (q RecommendBatchesQuery) Limit() int {
	return q.limit
}
