package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
)

func summaryAt(name string, amount float64, at time.Time) OrderSummary {
	return OrderSummary{
		OrderID:      kernel.NewUUID(),
		CustomerName: name,
		Address:      "somewhere",
		TotalAmount:  amount,
		UpdatedAt:    at,
	}
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultBatchLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultBatchLimit, NormalizeLimit(-5))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, MaxBatchLimit, NormalizeLimit(MaxBatchLimit))
	assert.Equal(t, MaxBatchLimit, NormalizeLimit(100))
}

func TestNewBatchBuilder(t *testing.T) {
	_, err := NewBatchBuilder(0, 5)
	assert.Error(t, err)

	_, err = NewBatchBuilder(4, 3)
	assert.Error(t, err)

	_, err = NewBatchBuilder(2, 2)
	assert.NoError(t, err)
}

func TestBatchBuilder_Build_FillsOldestFirst(t *testing.T) {
	builder, err := NewBatchBuilder(2, 3)
	require.NoError(t, err)

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	orders := []OrderSummary{
		summaryAt("third", 30, base.Add(2*time.Hour)),
		summaryAt("first", 10, base),
		summaryAt("fifth", 50, base.Add(4*time.Hour)),
		summaryAt("second", 20, base.Add(1*time.Hour)),
		summaryAt("fourth", 40, base.Add(3*time.Hour)),
	}

	result := builder.Build(orders, 10)

	require.Len(t, result.Batches, 2)
	assert.Empty(t, result.Leftovers)

	first := result.Batches[0]
	require.Len(t, first.Orders, 3)
	assert.Equal(t, "first", first.Orders[0].CustomerName)
	assert.Equal(t, "second", first.Orders[1].CustomerName)
	assert.Equal(t, "third", first.Orders[2].CustomerName)
	assert.InDelta(t, 60.0, first.TotalAmount, 0.001)
	assert.NoError(t, first.ID.Validate())

	second := result.Batches[1]
	require.Len(t, second.Orders, 2)
	assert.Equal(t, "fourth", second.Orders[0].CustomerName)
	assert.Equal(t, "fifth", second.Orders[1].CustomerName)
	assert.InDelta(t, 90.0, second.TotalAmount, 0.001)
}

func TestBatchBuilder_Build_PartialBelowMinBecomesLeftover(t *testing.T) {
	builder, err := NewBatchBuilder(2, 3)
	require.NoError(t, err)

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	orders := []OrderSummary{
		summaryAt("a", 10, base),
		summaryAt("b", 20, base.Add(time.Minute)),
		summaryAt("c", 30, base.Add(2*time.Minute)),
		summaryAt("d", 40, base.Add(3*time.Minute)),
	}

	result := builder.Build(orders, 10)

	require.Len(t, result.Batches, 1)
	assert.Len(t, result.Batches[0].Orders, 3)
	require.Len(t, result.Leftovers, 1)
	assert.Equal(t, "d", result.Leftovers[0].CustomerName)
}

func TestBatchBuilder_Build_LimitStopsBatching(t *testing.T) {
	builder, err := NewBatchBuilder(1, 2)
	require.NoError(t, err)

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	orders := make([]OrderSummary, 0, 6)
	for i := range 6 {
		orders = append(orders, summaryAt("o", 10, base.Add(time.Duration(i)*time.Minute)))
	}

	result := builder.Build(orders, 2)

	assert.Len(t, result.Batches, 2)
	assert.Len(t, result.Leftovers, 2)
}

func TestBatchBuilder_Build_DefaultLimit(t *testing.T) {
	builder, err := NewBatchBuilder(1, 1)
	require.NoError(t, err)

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	orders := make([]OrderSummary, 0, 5)
	for i := range 5 {
		orders = append(orders, summaryAt("o", 10, base.Add(time.Duration(i)*time.Minute)))
	}

	result := builder.Build(orders, 0)

	assert.Len(t, result.Batches, DefaultBatchLimit)
	assert.Len(t, result.Leftovers, 2)
}

func TestBatchBuilder_Build_Empty(t *testing.T) {
	builder, err := NewBatchBuilder(2, 5)
	require.NoError(t, err)

	result := builder.Build(nil, 3)

	assert.Empty(t, result.Batches)
	assert.Empty(t, result.Leftovers)
}

func TestBatchBuilder_Build_SinglePartialWithMinOne(t *testing.T) {
	builder, err := NewBatchBuilder(1, 5)
	require.NoError(t, err)

	result := builder.Build([]OrderSummary{
		summaryAt("only", 99, time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)),
	}, 3)

	require.Len(t, result.Batches, 1)
	assert.Len(t, result.Batches[0].Orders, 1)
	assert.Empty(t, result.Leftovers)
}
