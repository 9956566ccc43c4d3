// Package queries contains read-side operations of the CQRS split.
// Route planning and batch recommendation work on domain aggregates through
// repositories; fleet snapshots read the database directly for speed.
package queries

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces for queries that touch aggregates. Route planning
// persists geocoding results as a side effect, so it runs in a transaction
// like a command would.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// RouteUoW spans the aggregates route planning reads: orders for the
	// stops and the dispatch configuration for the pickup point.
	RouteUoW interface {
		TxManager
		OrderRepository() ports.OrderRepository
		DispatchConfigRepository() ports.DispatchConfigRepository
	}

	// RouteUoWFactory creates new route planning unit of work instances.
	RouteUoWFactory interface {
		Create() RouteUoW
	}
)
