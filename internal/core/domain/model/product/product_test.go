package product_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func TestNewProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		p, err := product.NewProduct(kernel.NewUUID(), "Oranges", "kg", 60, true, 25, true, now)
		require.NoError(t, err)
		assert.Equal(t, "Oranges", p.Name())
		assert.InDelta(t, 60, p.Price(), 0.001)
		assert.Equal(t, 25, p.Stock())
		assert.True(t, p.WeightBased())
		require.NoError(t, p.Validate())
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "Oranges", "kg", -1, false, 10, true, now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("negative stock rejected", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "Oranges", "kg", 60, false, -1, true, now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "", "kg", 60, false, 10, true, now)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("nil product fails validation", func(t *testing.T) {
		var p *product.Product
		require.ErrorIs(t, p.Validate(), product.ErrProductIsNotConstructed)
	})
}

func TestProduct_CanFulfill(t *testing.T) {
	p, err := product.NewProduct(kernel.NewUUID(), "Oranges", "kg", 60, false, 5, true, now)
	require.NoError(t, err)

	assert.True(t, p.CanFulfill(5))
	assert.True(t, p.CanFulfill(1))
	assert.False(t, p.CanFulfill(6))

	hidden, err := product.NewProduct(kernel.NewUUID(), "Apples", "kg", 40, false, 5, false, now)
	require.NoError(t, err)
	assert.False(t, hidden.CanFulfill(1))
}
