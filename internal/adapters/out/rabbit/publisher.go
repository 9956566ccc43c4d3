// Package rabbit publishes domain events to a RabbitMQ topic exchange.
package rabbit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"fulfillment/internal/pkg/errs"
)

// DefaultExchange is the topic exchange carrying fulfillment events.
const DefaultExchange = "fulfillment.events"

// envelope is the wire form of a published event. The routing key equals the
// event name, so consumers can bind on patterns like "order-*".
type envelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// RabbitEventPublisher implements EventPublisher on top of a single AMQP
// channel. Channels are not safe for concurrent publishing, so writes are
// serialized with a mutex.
type RabbitEventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewRabbitEventPublisher dials the broker and declares the topic exchange.
// An empty exchange name falls back to DefaultExchange.
func NewRabbitEventPublisher(url string, exchange string, logger *slog.Logger) (*RabbitEventPublisher, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("url")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.NewExternalServiceError("rabbitmq", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.NewExternalServiceError("rabbitmq", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, errs.NewExternalServiceError("rabbitmq", err)
	}

	return &RabbitEventPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger.With("component", "event_publisher"),
		now:      time.Now,
	}, nil
}

// Publish sends one persistent JSON message with the event name as routing key.
func (p *RabbitEventPublisher) Publish(ctx context.Context, eventName string, payload any) error {
	if eventName == "" {
		return errs.NewValueIsRequiredError("eventName")
	}

	body, err := json.Marshal(envelope{
		Event:      eventName,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, eventName, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    p.now().UTC(),
		Body:         body,
	})
	if err != nil {
		return errs.NewExternalServiceError("rabbitmq", err)
	}

	p.logger.Debug("event published", "event", eventName, "exchange", p.exchange)
	return nil
}

// Close releases the channel and connection.
func (p *RabbitEventPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
