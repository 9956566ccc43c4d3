package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents a request to move an order to a new
// lifecycle status on behalf of a specific actor.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	to      order.Status
	reason  string
	actor   order.Actor

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a status change command.
// Validates the order ID, the target status, and that an actor is present.
// The reason is optional and lands in the status history note.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	to order.Status,
	reason string,
	actor order.Actor,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTo(to),
		cmd.setActor(actor),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the target order identifier.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }

// To returns the requested target status.
func (c ChangeOrderStatusCommand) To() order.Status { return c.to }

// Reason returns the optional free-text note for the history entry.
func (c ChangeOrderStatusCommand) Reason() string { return c.reason }

// Actor returns who requested the change.
func (c ChangeOrderStatusCommand) Actor() order.Actor { return c.actor }

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTo(to order.Status) error {
	if err := to.Validate(); err != nil {
		return err
	}

	c.to = to
	return nil
}

func (c *ChangeOrderStatusCommand) setActor(actor order.Actor) error {
	if actor == nil {
		return errs.NewValueIsRequiredError("actor")
	}

	c.actor = actor
	return nil
}
