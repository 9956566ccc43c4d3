package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ErrInvalidStateForCancellation is returned when an order has progressed
// past the point where cancellation with stock restoration makes sense.
var ErrInvalidStateForCancellation = errors.New(
	"order can only be cancelled while pending or preparing",
)

// CancelOrderCommandHandler cancels an order and returns its items to stock.
//
// Cancellation with restock is only allowed before the goods leave the shelf:
// pending and preparing orders qualify. Later stages go through the regular
// status change with an admin actor and no automatic restock.
type CancelOrderCommandHandler struct {
	uowFactory CancelOrderUoWFactory
	table      order.TransitionTable
	publisher  ports.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory CancelOrderUoWFactory,
	table order.TransitionTable,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	now func() time.Time,
) CancelOrderCommandHandler {
	if now == nil {
		now = time.Now
	}
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		table:      table,
		publisher:  publisher,
		logger:     logger.With("component", "cancel_order_handler"),
		now:        now,
	}
}

// Handle processes the cancellation command and returns the cancelled order.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	productRepo := uow.ProductRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if aggregate.Status() != order.Pending && aggregate.Status() != order.Preparing {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidStateForCancellation, aggregate.Status())
	}

	for _, item := range aggregate.Items() {
		if err = productRepo.RestoreStock(ctx, item.ProductID(), item.Quantity()); err != nil {
			return nil, err
		}
	}

	if err = aggregate.ChangeStatus(order.Cancelled, cmd.Reason(), order.SystemActor{}, h.table, h.now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishEvent(ctx, h.publisher, h.logger, EventOrderCancelled, map[string]any{
		"order_id": aggregate.ID().String(),
		"reason":   cmd.Reason(),
	})

	return aggregate, nil
}
