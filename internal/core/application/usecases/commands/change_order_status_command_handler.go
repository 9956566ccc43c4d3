package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ChangeOrderStatusCommandHandler handles order lifecycle transitions.
//
// The transition table and the actor guards run in memory on the loaded
// aggregate; the repository's optimistic version check protects against a
// concurrent change between load and update. A stale write surfaces as
// errs.ErrVersionIsInvalid and is not retried, the caller resubmits with
// fresh state.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	table      order.TransitionTable
	publisher  ports.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewChangeOrderStatusCommandHandler creates a handler for status change operations.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	table order.TransitionTable,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	now func() time.Time,
) ChangeOrderStatusCommandHandler {
	if now == nil {
		now = time.Now
	}
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		table:      table,
		publisher:  publisher,
		logger:     logger.With("component", "change_order_status_handler"),
		now:        now,
	}
}

// Handle processes the status change command and returns the updated order.
func (h ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context, cmd ChangeOrderStatusCommand,
) (*order.Order, error) {
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

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	from := aggregate.Status()
	if err = aggregate.ChangeStatus(cmd.To(), cmd.Reason(), cmd.Actor(), h.table, h.now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// Driver assignment can change as part of the transition (claim, admin
	// reset), so the event carries the resulting assignment.
	var driverID any
	if d := aggregate.Driver(); d != nil {
		driverID = d.String()
	}
	publishEvent(ctx, h.publisher, h.logger, EventOrderStatusChanged, map[string]any{
		"order_id":  aggregate.ID().String(),
		"from":      from.String(),
		"to":        aggregate.Status().String(),
		"reason":    cmd.Reason(),
		"driver_id": driverID,
	})

	return aggregate, nil
}
