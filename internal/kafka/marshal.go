package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-shop-admin/internal/events"
)

func DecodeEnvelope(b []byte) (events.Envelope, error) {
	var ev events.Envelope
	if err := json.Unmarshal(b, &ev); err != nil {
		return ev, fmt.Errorf("decode envelope: %w", err)
	}
	return ev, nil
}

// UnwrapPayload decodes the payload of an envelope into its concrete type.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
