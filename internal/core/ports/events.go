package ports

import (
	"context"
	"time"
)

// Lifecycle event types. Each doubles as the AMQP routing key, so consumers
// can bind to "order.*" or "order_group.*".
const (
	EventOrderCreated                 = "order.created"
	EventOrderSignedAndActivated      = "order.signed_and_activated"
	EventOrderDiscontinued            = "order.discontinued"
	EventOrderFilled                  = "order.filled"
	EventOrderVoided                  = "order.voided"
	EventOrderUnvoided                = "order.unvoided"
	EventOrderPurged                  = "order.purged"
	EventOrderGroupSignedAndActivated = "order_group.signed_and_activated"
	EventOrderGroupVoided             = "order_group.voided"
	EventOrderGroupUnvoided           = "order_group.unvoided"
)

// LifecycleEvent announces a committed transition. It is built from the
// aggregate right after the transition and published only once the
// transaction has committed.
type LifecycleEvent struct {
	// Type is one of the Event* constants.
	Type string `json:"type"`
	// AggregateUUID is the uuid of the order or order group.
	AggregateUUID string `json:"aggregateUuid"`
	// OrderNumber is empty for group events.
	OrderNumber string `json:"orderNumber,omitempty"`
	Patient     string `json:"patient"`
	// ActorID is the authenticated user, zero for anonymous requests.
	ActorID    int64     `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher delivers lifecycle events after their transaction committed.
// A failed publish is logged by the caller and never undoes the transition.
type EventPublisher interface {
	// Publish delivers one event. Implementations must be safe for
	// concurrent use.
	Publish(ctx context.Context, event LifecycleEvent) error
}
