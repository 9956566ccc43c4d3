package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the fulfillment lifecycle. It owns its items
// and status history and enforces the amount invariants:
//
//	sum(items.lineTotal) ≈ subtotal
//	subtotal + deliveryFee ≈ totalAmount
//
// both within kernel.AmountEpsilon. Orders are created once with their items
// and an initial pending history entry, and are never physically deleted.
type Order struct {
	id kernel.UUID

	customerName string
	phone        string
	address      string

	// location is the geocoded delivery position; nil until resolved.
	location   *kernel.GeoPoint
	geocodedAt *time.Time

	status Status
	items  []Item

	subtotal      float64
	deliveryFee   float64
	totalAmount   float64
	paymentMethod string

	// driverID is the assigned driver (nil if unassigned).
	driverID *kernel.UUID

	deliveryDate time.Time
	isPreOrder   bool

	// priceAlerted records that a price-change notification went out for
	// this order, so alert dispatch stays idempotent.
	priceAlerted bool

	createdAt time.Time
	updatedAt time.Time

	// version backs the optimistic concurrency check in the repository.
	version int64

	history       []HistoryEntry
	newHistory    []HistoryEntry
	isConstructed bool
}

// NewOrder creates a new Order in pending status with an initial history entry.
//
// Validates contact fields, items, and the amount invariants. The caller (the
// creation coordinator) is responsible for checking submitted amounts against
// authoritative prices; this constructor only enforces internal consistency.
func NewOrder(
	id kernel.UUID,
	customerName string,
	phone string,
	address string,
	items []Item,
	subtotal float64,
	deliveryFee float64,
	totalAmount float64,
	paymentMethod string,
	deliveryDate time.Time,
	isPreOrder bool,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		deliveryDate:  deliveryDate,
		isPreOrder:    isPreOrder,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerName(customerName),
		o.setPhone(phone),
		o.setAddress(address),
		o.setItems(items),
		o.setAmounts(subtotal, deliveryFee, totalAmount),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}

	initial := HistoryEntry{Status: Pending, At: now}
	o.history = []HistoryEntry{initial}
	o.newHistory = []HistoryEntry{initial}

	return o, nil
}

// RestoreOrder rehydrates an Order from persistence without re-running the
// creation invariants beyond basic construction checks. History holds the
// already persisted entries; nothing is marked as uncommitted.
func RestoreOrder(
	id kernel.UUID,
	customerName string,
	phone string,
	address string,
	location *kernel.GeoPoint,
	geocodedAt *time.Time,
	status Status,
	items []Item,
	subtotal float64,
	deliveryFee float64,
	totalAmount float64,
	paymentMethod string,
	driverID *kernel.UUID,
	deliveryDate time.Time,
	isPreOrder bool,
	priceAlerted bool,
	createdAt time.Time,
	updatedAt time.Time,
	version int64,
	history []HistoryEntry,
) (*Order, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		customerName:  customerName,
		phone:         phone,
		address:       address,
		location:      location,
		geocodedAt:    geocodedAt,
		status:        status,
		items:         items,
		subtotal:      subtotal,
		deliveryFee:   deliveryFee,
		totalAmount:   totalAmount,
		paymentMethod: paymentMethod,
		driverID:      driverID,
		deliveryDate:  deliveryDate,
		isPreOrder:    isPreOrder,
		priceAlerted:  priceAlerted,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		history:       history,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerName returns the contact name.
func (o *Order) CustomerName() string { return o.customerName }

// Phone returns the contact phone number.
func (o *Order) Phone() string { return o.phone }

// Address returns the delivery address as submitted.
func (o *Order) Address() string { return o.address }

// Location returns the resolved delivery coordinates, nil if not geocoded yet.
func (o *Order) Location() *kernel.GeoPoint { return o.location }

// GeocodedAt returns when the coordinates were resolved, nil if never.
func (o *Order) GeocodedAt() *time.Time { return o.geocodedAt }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Items returns the order lines.
func (o *Order) Items() []Item { return o.items }

// Subtotal returns the sum of line totals.
func (o *Order) Subtotal() float64 { return o.subtotal }

// DeliveryFee returns the delivery fee charged on this order.
func (o *Order) DeliveryFee() float64 { return o.deliveryFee }

// TotalAmount returns subtotal plus delivery fee.
func (o *Order) TotalAmount() float64 { return o.totalAmount }

// PaymentMethod returns the customer's chosen payment method.
func (o *Order) PaymentMethod() string { return o.paymentMethod }

// Driver returns the assigned driver's ID, nil if unassigned.
func (o *Order) Driver() *kernel.UUID { return o.driverID }

// DeliveryDate returns the scheduled delivery date.
func (o *Order) DeliveryDate() time.Time { return o.deliveryDate }

// IsPreOrder reports whether the order was placed for the next order window.
func (o *Order) IsPreOrder() bool { return o.isPreOrder }

// PriceAlerted reports whether a price-change alert was already sent.
func (o *Order) PriceAlerted() bool { return o.priceAlerted }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last modification timestamp.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Version returns the optimistic concurrency version loaded from storage.
func (o *Order) Version() int64 { return o.version }

// History returns all lifecycle entries, persisted and uncommitted.
func (o *Order) History() []HistoryEntry { return o.history }

// UncommittedHistory returns the entries appended since the aggregate was
// loaded. Repositories insert exactly these rows on update.
func (o *Order) UncommittedHistory() []HistoryEntry { return o.newHistory }

// ChangeStatus moves the order to the target status.
//
// The table decides whether the edge exists; the actor guard decides whether
// this caller may use it (and applies claim/reset side effects). On success
// the status changes and one history entry is appended. On failure the
// aggregate is unchanged.
func (o *Order) ChangeStatus(to Status, reason string, actor Actor, table TransitionTable, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}
	if actor == nil {
		return errs.NewValueIsRequiredError("actor")
	}

	if err := table.Check(o.status, to); err != nil {
		return err
	}

	if err := actor.guardTransition(o, to); err != nil {
		return err
	}

	o.status = to
	o.updatedAt = now
	entry := HistoryEntry{Status: to, Note: reason, At: now}
	o.history = append(o.history, entry)
	o.newHistory = append(o.newHistory, entry)

	return nil
}

// MarkGeocoded records resolved coordinates for the delivery address.
func (o *Order) MarkGeocoded(p kernel.GeoPoint, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	o.location = &p
	o.geocodedAt = &at
	o.updatedAt = at
	return nil
}

// MarkPriceAlerted records that a price-change alert went out for this order.
func (o *Order) MarkPriceAlerted(at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	o.priceAlerted = true
	o.updatedAt = at
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	o.customerName = name
	return nil
}

func (o *Order) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	o.phone = phone
	return nil
}

func (o *Order) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	o.address = address
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}

func (o *Order) setAmounts(subtotal float64, deliveryFee float64, totalAmount float64) error {
	if subtotal < 0 || deliveryFee < 0 || totalAmount < 0 {
		return errs.NewValueIsInvalidError("amounts must be non-negative")
	}

	var itemsTotal float64
	for _, item := range o.items {
		itemsTotal += item.LineTotal()
	}
	if !kernel.AmountsEqual(itemsTotal, subtotal) {
		return errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("items sum to %.2f, subtotal is %.2f", itemsTotal, subtotal))
	}
	if !kernel.AmountsEqual(subtotal+deliveryFee, totalAmount) {
		return errs.NewValueIsInvalidErrorWithCause("totalAmount",
			fmt.Errorf("%.2f + %.2f does not equal %.2f", subtotal, deliveryFee, totalAmount))
	}

	o.subtotal = subtotal
	o.deliveryFee = deliveryFee
	o.totalAmount = totalAmount
	return nil
}

func (o *Order) setPaymentMethod(method string) error {
	if method == "" {
		return errs.NewValueIsRequiredError("paymentMethod")
	}
	o.paymentMethod = method
	return nil
}
