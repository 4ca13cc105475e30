package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-shop-admin/internal/events"
	"github.com/segmentio/kafka-go"
)

// HeaderEventType lets consumers route without decoding the value.
const HeaderEventType = "event_type"

type sink interface {
	Publish(key, value []byte, headers ...kafka.Header) error
}

// EventPublisher puts envelopes on a topic keyed by shop.
type EventPublisher struct {
	Producer sink
}

func NewEventPublisher(p *Producer) *EventPublisher {
	return &EventPublisher{Producer: p}
}

func (e *EventPublisher) Publish(_ context.Context, ev events.Envelope) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", ev.EventType, err)
	}
	return e.Producer.Publish(events.PartitionKey(ev.Shop), b,
		kafka.Header{Key: HeaderEventType, Value: []byte(ev.EventType)})
}
