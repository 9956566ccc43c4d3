// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest interface that covers the aggregates
// it touches.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ProductRepoFactory provides access to the product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// DriverRepoFactory provides access to the driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// DispatchConfigRepoFactory provides access to the dispatch configuration
	// within a transaction.
	DispatchConfigRepoFactory interface {
		DispatchConfigRepository() ports.DispatchConfigRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CreateOrderUoW spans the aggregates order creation touches: the order
	// itself, the product catalog for price checks and stock decrements, and
	// the dispatch configuration for the fee rule.
	CreateOrderUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
		DispatchConfigRepoFactory
	}

	// CreateOrderUoWFactory creates new unit of work instances for order creation.
	CreateOrderUoWFactory interface {
		Create() CreateOrderUoW
	}

	// CancelOrderUoW spans order and product aggregates so cancellation can
	// restore stock and flip the order status atomically.
	CancelOrderUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
	}

	// CancelOrderUoWFactory creates new unit of work instances for cancellation.
	CancelOrderUoWFactory interface {
		Create() CancelOrderUoW
	}

	// DriverUoW manages transactions for driver-only operations.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	// DriverUoWFactory creates new driver unit of work instances.
	DriverUoWFactory interface {
		Create() DriverUoW
	}
)
