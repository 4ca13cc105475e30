package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	EventInventoryLevelSet    = "InventoryLevelSet"
	EventInventoryItemUpdated = "InventoryItemUpdated"
	EventOrderUpdated         = "OrderUpdated"
	EventWebhookReceived      = "WebhookReceived"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	Shop          string          `json:"shop"`
	CorrelationID string          `json:"correlation_id,omitempty"` // upstream id of the touched entity
	Payload       json.RawMessage `json:"payload"`
}

type InventoryLevelSetPayload struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	Available       int   `json:"available"`
	ProductID       int64 `json:"product_id,omitempty"`
	VariantID       int64 `json:"variant_id,omitempty"`
}

type InventoryItemUpdatedPayload struct {
	InventoryItemID int64   `json:"inventory_item_id"`
	SKU             *string `json:"sku,omitempty"`
	Tracked         *bool   `json:"tracked,omitempty"`
	Cost            *string `json:"cost,omitempty"`
}

type OrderUpdatedPayload struct {
	OrderID        int64   `json:"order_id"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
	CustomerEmail  *string `json:"customer_email,omitempty"`
}

type WebhookReceivedPayload struct {
	Topic     string          `json:"topic"`
	WebhookID string          `json:"webhook_id,omitempty"`
	Body      json.RawMessage `json:"body"`
}

// New builds a version 1 envelope. The trace id is the chi request id of ctx, if any.
func New(ctx context.Context, eventType, producer, shop, correlationID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       middleware.GetReqID(ctx),
		Shop:          shop,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// Publisher hands envelopes to the event bus. Implementations must not block
// the request on broker availability.
type Publisher interface {
	Publish(ctx context.Context, ev Envelope) error
}

type Noop struct{}

func (Noop) Publish(context.Context, Envelope) error { return nil }

// PartitionKey keeps all events of one shop in order.
func PartitionKey(shop string) []byte { return []byte(shop) }
