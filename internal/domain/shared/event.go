package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by every event raised inside the domain layer.
// The event type doubles as the message bus routing key, so names follow the
// dotted convention ("stock.opname.approved", "product.code.updated").
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	ActorID() uuid.UUID
}

// BaseDomainEvent provides the common event fields. Concrete events embed it
// and override EventType.
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"event_id"`
	Type      string    `json:"event_type"`
	Timestamp time.Time `json:"occurred_at"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
	Actor     uuid.UUID `json:"actor_id"`
}

// NewBaseDomainEvent creates the base portion of a domain event.
func NewBaseDomainEvent(eventType string, aggregateID uuid.UUID, aggregateType string, actorID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggregateID,
		AggType:   aggregateType,
		Actor:     actorID,
	}
}

func (e BaseDomainEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseDomainEvent) EventType() string     { return e.Type }
func (e BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}
func (e BaseDomainEvent) AggregateType() string { return e.AggType }
func (e BaseDomainEvent) ActorID() uuid.UUID    { return e.Actor }
