package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderWindowClosed is returned when ordering is not possible at the
	// current time.
	ErrOrderWindowClosed = errors.New("ordering is closed right now")

	// ErrPriceMismatch is returned when a submitted unit price differs from
	// the catalog price. The client should refresh and resubmit.
	ErrPriceMismatch = errors.New("submitted price does not match the catalog price")

	// ErrDeliveryFeeMismatch is returned when the submitted delivery fee
	// differs from the fee computed by the current rule.
	ErrDeliveryFeeMismatch = errors.New("submitted delivery fee does not match")

	// ErrTotalAmountMismatch is returned when the submitted total differs
	// from subtotal plus delivery fee.
	ErrTotalAmountMismatch = errors.New("submitted total amount does not match")

	// ErrInsufficientStock is returned when a product cannot cover the
	// requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CreateOrderCommandHandler handles the business logic for order creation.
//
// Creation is all-or-nothing: the business hours gate, the price and amount
// verification against the catalog, the conditional stock decrements, and the
// order insert either all succeed in one transaction or nothing is persisted.
type CreateOrderCommandHandler struct {
	uowFactory CreateOrderUoWFactory
	hours      ports.BusinessHoursOracle
	publisher  ports.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory CreateOrderUoWFactory,
	hours ports.BusinessHoursOracle,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	now func() time.Time,
) CreateOrderCommandHandler {
	if now == nil {
		now = time.Now
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		hours:      hours,
		publisher:  publisher,
		logger:     logger.With("component", "create_order_handler"),
		now:        now,
	}
}

// Handle processes the order creation command and returns the created order.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.now()
	timing, err := h.hours.CheckOrderTiming(ctx, now)
	if err != nil {
		return nil, err
	}
	if !timing.Valid {
		return nil, ErrOrderWindowClosed
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	productRepo := uow.ProductRepository()

	ids := make([]kernel.UUID, 0, len(cmd.Items()))
	for _, item := range cmd.Items() {
		ids = append(ids, item.ProductID)
	}

	products, err := productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	catalog := make(map[kernel.UUID]*product.Product, len(products))
	for _, p := range products {
		catalog[p.ID()] = p
	}

	items, subtotal, err := buildVerifiedItems(cmd.Items(), catalog)
	if err != nil {
		return nil, err
	}

	config, err := uow.DispatchConfigRepository().Get(ctx)
	if err != nil {
		return nil, err
	}

	expectedFee := config.DeliveryFee(subtotal)
	if !kernel.AmountsEqual(expectedFee, cmd.DeliveryFee()) {
		return nil, fmt.Errorf("%w: expected %.2f, got %.2f", ErrDeliveryFeeMismatch, expectedFee, cmd.DeliveryFee())
	}

	expectedTotal := subtotal + expectedFee
	if !kernel.AmountsEqual(expectedTotal, cmd.TotalAmount()) {
		return nil, fmt.Errorf("%w: expected %.2f, got %.2f", ErrTotalAmountMismatch, expectedTotal, cmd.TotalAmount())
	}

	for _, item := range cmd.Items() {
		if err = productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, errs.ErrBusinessRuleViolated) {
				return nil, insufficientStockError(ctx, productRepo, catalog[item.ProductID], item.Quantity)
			}
			return nil, err
		}
	}

	aggregate, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.CustomerName(),
		cmd.Phone(),
		cmd.Address(),
		items,
		subtotal,
		expectedFee,
		expectedTotal,
		cmd.PaymentMethod(),
		timing.DeliveryDate,
		timing.Window == ports.WindowNextDay,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishEvent(ctx, h.publisher, h.logger, EventOrderCreated, map[string]any{
		"order_id":      aggregate.ID().String(),
		"status":        aggregate.Status().String(),
		"phone":         aggregate.Phone(),
		"total_amount":  aggregate.TotalAmount(),
		"delivery_date": aggregate.DeliveryDate(),
		"is_pre_order":  aggregate.IsPreOrder(),
	})

	return aggregate, nil
}

// insufficientStockError reports which product fell short, how much is
// available, and how much was requested. The stock is re-read inside the
// aborting transaction because the catalog copy may predate a concurrent
// decrement; on a read failure the catalog value stands in.
func insufficientStockError(
	ctx context.Context, productRepo ports.ProductRepository, p *product.Product, requested int,
) error {
	available := p.Stock()
	if fresh, err := productRepo.Get(ctx, p.ID()); err == nil {
		available = fresh.Stock()
	}
	return fmt.Errorf("%w: %s has %d available, requested %d",
		ErrInsufficientStock, p.Name(), available, requested)
}

// buildVerifiedItems checks every submitted line against the catalog and
// returns the authoritative order items plus their subtotal.
func buildVerifiedItems(
	inputs []OrderItemInput,
	catalog map[kernel.UUID]*product.Product,
) ([]order.Item, float64, error) {
	items := make([]order.Item, 0, len(inputs))
	subtotal := 0.0

	for _, input := range inputs {
		p, ok := catalog[input.ProductID]
		if !ok {
			return nil, 0, errs.NewObjectNotFoundError("product", input.ProductID.String())
		}

		if !p.Available() {
			return nil, 0, fmt.Errorf("%w: product %s is unavailable", ErrInsufficientStock, p.ID())
		}

		if !kernel.AmountsEqual(input.UnitPrice, p.Price()) {
			return nil, 0, fmt.Errorf("%w: product %s is %.2f, got %.2f",
				ErrPriceMismatch, p.ID(), p.Price(), input.UnitPrice)
		}

		lineTotal := float64(input.Quantity) * p.Price()
		item, err := order.NewItem(p.ID(), p.Name(), input.Quantity, p.Unit(), p.Price(), lineTotal)
		if err != nil {
			return nil, 0, err
		}

		items = append(items, item)
		subtotal += lineTotal
	}

	return items, subtotal, nil
}
