package services

import (
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const (
	// DefaultBatchLimit is the number of batches recommended when the caller
	// does not specify one.
	DefaultBatchLimit = 3

	// MaxBatchLimit caps a caller-provided batch limit.
	MaxBatchLimit = 20
)

// OrderSummary is the read model the batch builder works with: enough of an
// order to group it, show it, and plan a route preview for it.
type OrderSummary struct {
	OrderID      kernel.UUID
	CustomerName string
	Address      string
	TotalAmount  float64
	UpdatedAt    time.Time
}

// Batch is one recommended delivery round: up to batchMax ready orders with
// their aggregate amount and, when computable, a route preview.
type Batch struct {
	ID          kernel.UUID
	Orders      []OrderSummary
	TotalAmount float64
	Route       *RoutePlan
}

// BatchResult holds the recommended batches plus the orders that did not make
// it into any batch this round.
type BatchResult struct {
	Batches   []Batch
	Leftovers []OrderSummary
}

// NormalizeLimit applies the default and cap to a caller-provided batch limit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultBatchLimit
	}
	if limit > MaxBatchLimit {
		return MaxBatchLimit
	}
	return limit
}

// BatchBuilder groups ready orders into size-bounded batches, oldest first.
type BatchBuilder struct {
	minSize int
	maxSize int
}

// NewBatchBuilder creates a builder with the configured batch size bounds.
func NewBatchBuilder(minSize int, maxSize int) (BatchBuilder, error) {
	if minSize < 1 || maxSize < minSize {
		return BatchBuilder{}, errs.NewValueIsOutOfRangeError("batch size bounds", minSize, 1, maxSize)
	}
	return BatchBuilder{minSize: minSize, maxSize: maxSize}, nil
}

// Build fills batches greedily in FIFO order (oldest update first) up to
// maxSize orders each, closing at most limit batches. Orders seen after the
// limit is reached become leftovers. A trailing partial buffer becomes a
// batch only when it holds at least minSize orders and the limit has not been
// reached; otherwise its members join the leftovers.
func (b BatchBuilder) Build(orders []OrderSummary, limit int) BatchResult {
	limit = NormalizeLimit(limit)

	sorted := make([]OrderSummary, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.Before(sorted[j].UpdatedAt)
	})

	result := BatchResult{
		Batches:   make([]Batch, 0, limit),
		Leftovers: make([]OrderSummary, 0),
	}

	var buffer []OrderSummary
	for _, o := range sorted {
		if len(result.Batches) >= limit {
			result.Leftovers = append(result.Leftovers, o)
			continue
		}

		buffer = append(buffer, o)
		if len(buffer) == b.maxSize {
			result.Batches = append(result.Batches, closeBatch(buffer))
			buffer = nil
		}
	}

	if len(buffer) > 0 {
		if len(buffer) >= b.minSize && len(result.Batches) < limit {
			result.Batches = append(result.Batches, closeBatch(buffer))
		} else {
			result.Leftovers = append(result.Leftovers, buffer...)
		}
	}

	return result
}

func closeBatch(orders []OrderSummary) Batch {
	batch := Batch{
		ID:     kernel.NewUUID(),
		Orders: orders,
	}
	for _, o := range orders {
		batch.TotalAmount += o.TotalAmount
	}
	return batch
}
