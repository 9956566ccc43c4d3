package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a single order line. Immutable after construction; the line total
// must match quantity times unit price within the amount tolerance.
type Item struct { //nolint:recvcheck //pointer receivers on private setters for construction
	productID kernel.UUID
	name      string
	quantity  int
	unit      string
	unitPrice float64
	lineTotal float64

	guard guard.ConstructorGuard
}

// NewItem creates a validated order line.
// Quantity must be positive; unit price and line total must be non-negative,
// and the line total must equal quantity*unitPrice within kernel.AmountEpsilon.
func NewItem(
	productID kernel.UUID,
	name string,
	quantity int,
	unit string,
	unitPrice float64,
	lineTotal float64,
) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setName(name),
		item.setQuantity(quantity),
		item.setUnit(unit),
		item.setUnitPrice(unitPrice),
		item.setLineTotal(lineTotal),
	); err != nil {
		return Item{}, err
	}

	if !kernel.AmountsEqual(float64(quantity)*unitPrice, lineTotal) {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("lineTotal",
			fmt.Errorf("%.2f does not match %d x %.2f", lineTotal, quantity, unitPrice))
	}

	return item, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ProductID returns the catalog identifier of the ordered product.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Name returns the product name captured at order time.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// Unit returns the sales unit, e.g. "kg" or "box".
func (i Item) Unit() string {
	return i.unit
}

// UnitPrice returns the per-unit price submitted with the order.
func (i Item) UnitPrice() float64 {
	return i.unitPrice
}

// LineTotal returns quantity times unit price as submitted.
func (i Item) LineTotal() float64 {
	return i.lineTotal
}

func (i *Item) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.productID = id
	return nil
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnit(unit string) error {
	if unit == "" {
		return errs.NewValueIsRequiredError("item unit")
	}
	i.unit = unit
	return nil
}

func (i *Item) setUnitPrice(price float64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice",
			fmt.Errorf("%.2f is negative", price))
	}
	i.unitPrice = price
	return nil
}

func (i *Item) setLineTotal(total float64) error {
	if total < 0 {
		return errs.NewValueIsInvalidErrorWithCause("lineTotal",
			fmt.Errorf("%.2f is negative", total))
	}
	i.lineTotal = total
	return nil
}
