// Package events publishes order history changes to a message broker so
// kitchen displays and reporting jobs can follow the counter.
package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	TopicOrderCreated = "orders.created"
	TopicOrderDeleted = "orders.deleted"
	TopicOrdersClear  = "orders.cleared"
)

// Publisher sends a message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
	Close() error
}

// Event is the envelope published for every history change.
type Event struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"order_id,omitempty"`
	Order      json.RawMessage `json:"order,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Encode marshals an event for topic. payload, when non-nil, is embedded as
// the order snapshot.
func Encode(topic, orderID string, payload interface{}, at time.Time) ([]byte, error) {
	e := Event{Type: topic, OrderID: orderID, OccurredAt: at.UTC()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		e.Order = raw
	}
	return json.Marshal(e)
}

// Noop discards every message. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, []byte) error { return nil }
func (Noop) Close() error                                  { return nil }
