package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Envelope is the wire shape shared by every event on the bus. Data carries
// the full entity state (or notification payload) as published by the owner.
type Envelope struct {
	EventID uuid.UUID       `json:"event_id"`
	ActorID uuid.UUID       `json:"actor_id"`
	Data    json.RawMessage `json:"data"`
}

// ParseEnvelope decodes a message body. Bodies without an event_id are
// accepted; idempotent dispatch then falls back to processing them directly.
func ParseEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return Envelope{}, fmt.Errorf("envelope has no data payload")
	}
	return env, nil
}

// Bind decodes the envelope data into a typed payload.
func (e Envelope) Bind(v interface{}) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}
	return nil
}
