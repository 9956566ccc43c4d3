// Package product contains the catalog aggregate consumed by order creation.
// Products carry the authoritative price and stock level; the creation
// coordinator validates submitted prices against them and decrements stock.
package product

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrProductIsNotConstructed is returned when a Product was not created via
// NewProduct or RestoreProduct.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct")

// Product is a catalog entry. Price is the authoritative unit price; for
// weight-based goods it is the per-unit (per-kg) price. Stock is a
// non-negative integer decremented by order creation and restored by
// cancellation.
type Product struct {
	id          kernel.UUID
	name        string
	unit        string
	price       float64
	weightBased bool
	stock       int
	available   bool
	updatedAt   time.Time

	isConstructed bool
}

// NewProduct creates a validated catalog entry.
func NewProduct(
	id kernel.UUID,
	name string,
	unit string,
	price float64,
	weightBased bool,
	stock int,
	available bool,
	now time.Time,
) (*Product, error) {
	p := &Product{
		weightBased:   weightBased,
		available:     available,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setUnit(unit),
		p.setPrice(price),
		p.setStock(stock),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreProduct rehydrates a product from persistence.
func RestoreProduct(
	id kernel.UUID,
	name string,
	unit string,
	price float64,
	weightBased bool,
	stock int,
	available bool,
	updatedAt time.Time,
) (*Product, error) {
	return NewProduct(id, name, unit, price, weightBased, stock, available, updatedAt)
}

// Validate ensures the Product was properly constructed.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID { return p.id }

// Name returns the display name.
func (p *Product) Name() string { return p.name }

// Unit returns the sales unit.
func (p *Product) Unit() string { return p.unit }

// Price returns the authoritative unit price.
func (p *Product) Price() float64 { return p.price }

// WeightBased reports whether the price is per weight unit.
func (p *Product) WeightBased() bool { return p.weightBased }

// Stock returns the current stock level.
func (p *Product) Stock() int { return p.stock }

// Available reports whether the product can be ordered at all.
func (p *Product) Available() bool { return p.available }

// UpdatedAt returns the last modification timestamp.
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// CanFulfill reports whether current stock covers the requested quantity.
// This is the in-memory check; the storage layer enforces the same rule with
// a conditional decrement under concurrency.
func (p *Product) CanFulfill(quantity int) bool {
	return p.available && p.stock >= quantity
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	p.name = name
	return nil
}

func (p *Product) setUnit(unit string) error {
	if unit == "" {
		return errs.NewValueIsRequiredError("product unit")
	}
	p.unit = unit
	return nil
}

func (p *Product) setPrice(price float64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("price",
			fmt.Errorf("%.2f is negative", price))
	}
	p.price = price
	return nil
}

func (p *Product) setStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stock",
			fmt.Errorf("%d is negative", stock))
	}
	p.stock = stock
	return nil
}
