package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
)

// Domain event names emitted by command handlers after commit.
const (
	EventOrderCreated       = "order-created"
	EventOrderStatusChanged = "order-status-changed"
	EventOrderCancelled     = "order-cancelled"
)

// publishEvent delivers a post-commit event. The transaction already
// succeeded, so publish failures are logged and swallowed.
func publishEvent(
	ctx context.Context,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	eventName string,
	payload any,
) {
	if publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, eventName, payload); err != nil {
		logger.WarnContext(ctx, "failed to publish event", "event", eventName, "error", err)
	}
}
