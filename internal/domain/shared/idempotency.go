package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdempotencyStore records which event IDs have already been consumed so
// redelivered messages can be skipped.
type IdempotencyStore interface {
	// MarkProcessed atomically records the event ID. It returns true when the
	// ID was newly recorded and false when it was already present.
	MarkProcessed(ctx context.Context, eventID uuid.UUID, ttl time.Duration) (bool, error)
	// IsProcessed reports whether the event ID has been recorded.
	IsProcessed(ctx context.Context, eventID uuid.UUID) (bool, error)
	Close() error
}

// DefaultIdempotencyTTL bounds how long processed event IDs are remembered.
const DefaultIdempotencyTTL = 24 * time.Hour
