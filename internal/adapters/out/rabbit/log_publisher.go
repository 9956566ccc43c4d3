package rabbit

import (
	"context"
	"log/slog"

	"fulfillment/internal/pkg/errs"
)

// LogPublisher is the EventPublisher used when no broker is configured. It
// writes events to the log and never fails, so use cases behave the same with
// and without messaging infrastructure.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a log-only publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "event_publisher")}
}

// Publish logs the event instead of sending it anywhere.
func (p *LogPublisher) Publish(_ context.Context, eventName string, payload any) error {
	if eventName == "" {
		return errs.NewValueIsRequiredError("eventName")
	}

	p.logger.Info("event published", "event", eventName, "payload", payload)
	return nil
}
