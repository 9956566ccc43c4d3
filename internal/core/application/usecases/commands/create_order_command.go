package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("order must contain at least one item")
)

// OrderItemInput is one requested order line as submitted by the client.
// The unit price is the price the customer saw; the handler verifies it
// against the catalog before accepting the order.
type OrderItemInput struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice float64
}

func (i OrderItemInput) validate() error {
	return errors.Join(
		i.ProductID.Validate(),
		func() error {
			if i.Quantity <= 0 {
				return errs.NewValueIsInvalidError("quantity")
			}
			return nil
		}(),
		func() error {
			if i.UnitPrice < 0 {
				return errs.NewValueIsInvalidError("unitPrice")
			}
			return nil
		}(),
	)
}

// CreateOrderCommand represents a request to create a new order.
// Carries the customer contact details and the submitted amounts; the
// authoritative prices live in the catalog and are verified by the handler.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerName  string
	phone         string
	address       string
	items         []OrderItemInput
	deliveryFee   float64
	totalAmount   float64
	paymentMethod string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates contact fields, item inputs, and submitted amounts.
func NewCreateOrderCommand(
	customerName string,
	phone string,
	address string,
	items []OrderItemInput,
	deliveryFee float64,
	totalAmount float64,
	paymentMethod string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerName(customerName),
		cmd.setPhone(phone),
		cmd.setAddress(address),
		cmd.setItems(items),
		cmd.setAmounts(deliveryFee, totalAmount),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// CustomerName returns the customer's contact name.
func (c CreateOrderCommand) CustomerName() string { return c.customerName }

// Phone returns the customer's contact phone.
func (c CreateOrderCommand) Phone() string { return c.phone }

// Address returns the delivery street address.
func (c CreateOrderCommand) Address() string { return c.address }

// Items returns the requested order lines.
func (c CreateOrderCommand) Items() []OrderItemInput { return c.items }

// DeliveryFee returns the delivery fee the client was shown.
func (c CreateOrderCommand) DeliveryFee() float64 { return c.deliveryFee }

// TotalAmount returns the total the client expects to pay.
func (c CreateOrderCommand) TotalAmount() float64 { return c.totalAmount }

// PaymentMethod returns the chosen payment method.
func (c CreateOrderCommand) PaymentMethod() string { return c.paymentMethod }

func (c *CreateOrderCommand) setCustomerName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}

	c.customerName = name
	return nil
}

func (c *CreateOrderCommand) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}

	c.phone = phone
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	for _, item := range items {
		if err := item.validate(); err != nil {
			return err
		}
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setAmounts(deliveryFee float64, totalAmount float64) error {
	if deliveryFee < 0 {
		return errs.NewValueIsInvalidError("deliveryFee")
	}
	if totalAmount < 0 {
		return errs.NewValueIsInvalidError("totalAmount")
	}

	c.deliveryFee = deliveryFee
	c.totalAmount = totalAmount
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method string) error {
	if method == "" {
		return errs.NewValueIsRequiredError("paymentMethod")
	}

	c.paymentMethod = method
	return nil
}
