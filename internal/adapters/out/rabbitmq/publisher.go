package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"orderentry/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is used when no exchange name is configured.
const DefaultExchange = "order_lifecycle"

// Publisher implements ports.EventPublisher. Each event goes to the topic
// exchange with its type as routing key, e.g. "order.discontinued".
type Publisher struct {
	conn     Connection
	exchange string
}

// NewPublisher creates a publisher on conn. An empty exchange means DefaultExchange.
func NewPublisher(conn Connection, exchange string) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Publisher{conn: conn, exchange: exchange}
}

// Publish sends the event as a persistent JSON message on a fresh channel.
// The exchange is declared on every call, which is idempotent on the broker.
//
// Example:
//
//	publisher := rabbitmq.NewPublisher(conn, "order_lifecycle")
//	err := publisher.Publish(ctx, ports.LifecycleEvent{Type: ports.EventOrderVoided, AggregateUUID: id})
func (p *Publisher) Publish(ctx context.Context, event ports.LifecycleEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err = ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.AggregateUUID,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
