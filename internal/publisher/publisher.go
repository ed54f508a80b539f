package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/ec-order-pipeline/internal/domain/order"
	"github.com/google/uuid"
)

// RoutingKeyOrderCreated is the fixed routing key order events are published
// under; the notification queue binds to it.
const RoutingKeyOrderCreated = "order.created"

// DefaultPublishTimeout bounds a single publish so a slow broker cannot hang
// the caller.
const DefaultPublishTimeout = 5 * time.Second

// Envelope wraps every published event with its identity and type, so
// consumers can dispatch without decoding the payload first.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Producer is the slice of the message channel the publisher needs.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// EventPublisher converts committed orders into order-created events on the
// topic. Publishing is a side effect of checkout: the orchestrator logs and
// absorbs any error returned here, so a broker outage never unwinds an order.
type EventPublisher struct {
	producer Producer
	timeout  time.Duration
}

func NewEventPublisher(producer Producer, timeout time.Duration) *EventPublisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &EventPublisher{producer: producer, timeout: timeout}
}

// PublishOrderCreated snapshots the order into its event form and sends it.
func (p *EventPublisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	payload, err := json.Marshal(order.NewCreatedEvent(o))
	if err != nil {
		return fmt.Errorf("marshal order created event: %w", err)
	}

	envelope, err := json.Marshal(Envelope{
		ID:         uuid.New().String(),
		Type:       order.EventOrderCreated,
		OccurredAt: time.Now(),
		Data:       payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.producer.Publish(ctx, RoutingKeyOrderCreated, envelope); err != nil {
		return fmt.Errorf("publish order created event: %w", err)
	}

	log.Printf("[Publisher] Order created event published: orderID=%d userID=%s", o.ID, o.UserID)
	return nil
}

var _ order.Publisher = (*EventPublisher)(nil)
