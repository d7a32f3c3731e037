package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus tracks the publication lifecycle of an outbox entry.
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

// Outbox retry parameters.
const (
	OutboxMaxRetries       = 5
	OutboxBaseRetryBackoff = time.Second
)

// OutboxEntry is a domain event persisted in the same transaction as the
// aggregate change that raised it. A relay publishes entries to the message
// bus and marks them sent.
type OutboxEntry struct {
	ID            uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	EventID       uuid.UUID    `json:"event_id" gorm:"type:uuid;uniqueIndex;not null"`
	EventType     string       `json:"event_type" gorm:"size:255;not null;index"`
	AggregateID   uuid.UUID    `json:"aggregate_id" gorm:"type:uuid;not null;index"`
	AggregateType string       `json:"aggregate_type" gorm:"size:100;not null"`
	Payload       []byte       `json:"payload" gorm:"type:jsonb;not null"`
	Status        OutboxStatus `json:"status" gorm:"size:20;not null;default:'PENDING';index"`
	RetryCount    int          `json:"retry_count" gorm:"default:0"`
	MaxRetries    int          `json:"max_retries" gorm:"default:5"`
	LastError     string       `json:"last_error" gorm:"type:text"`
	NextRetryAt   *time.Time   `json:"next_retry_at" gorm:"index"`
	SentAt        *time.Time   `json:"sent_at"`
	CreatedAt     time.Time    `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// NewOutboxEntry creates a pending entry for a serialized domain event.
func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    OutboxMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanRetry reports whether a failed entry is eligible for another attempt.
func (e *OutboxEntry) CanRetry() bool {
	if e.Status != OutboxStatusFailed {
		return false
	}
	if e.RetryCount >= e.MaxRetries {
		return false
	}
	if e.NextRetryAt != nil && time.Now().Before(*e.NextRetryAt) {
		return false
	}
	return true
}

// MarkProcessing transitions the entry to PROCESSING while the relay holds it.
func (e *OutboxEntry) MarkProcessing() {
	e.Status = OutboxStatusProcessing
	e.UpdatedAt = time.Now()
}

// MarkSent records a successful publication.
func (e *OutboxEntry) MarkSent() {
	now := time.Now()
	e.Status = OutboxStatusSent
	e.SentAt = &now
	e.UpdatedAt = now
}

// MarkFailed records a failed attempt. The retry counter is incremented and
// the next attempt is scheduled with exponential backoff. Once the counter
// reaches MaxRetries the entry is moved to DEAD.
func (e *OutboxEntry) MarkFailed(errMsg string) {
	now := time.Now()
	e.RetryCount++
	e.LastError = errMsg
	e.UpdatedAt = now
	if e.RetryCount >= e.MaxRetries {
		e.Status = OutboxStatusDead
		e.NextRetryAt = nil
		return
	}
	e.Status = OutboxStatusFailed
	backoff := OutboxBaseRetryBackoff * time.Duration(1<<(e.RetryCount-1))
	next := now.Add(backoff)
	e.NextRetryAt = &next
}

// ResetForRetry requeues a DEAD entry for manual replay.
func (e *OutboxEntry) ResetForRetry() {
	e.Status = OutboxStatusPending
	e.RetryCount = 0
	e.LastError = ""
	e.NextRetryAt = nil
	e.UpdatedAt = time.Now()
}

// IsDead reports whether the entry has exhausted its retries.
func (e *OutboxEntry) IsDead() bool {
	return e.Status == OutboxStatusDead
}

// OutboxRepository persists outbox entries.
type OutboxRepository interface {
	Save(ctx context.Context, entry *OutboxEntry) error
	FindPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	FindRetryable(ctx context.Context, limit int) ([]*OutboxEntry, error)
	FindDead(ctx context.Context, limit int) ([]*OutboxEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OutboxEntry, error)
	MarkProcessing(ctx context.Context, ids []uuid.UUID) error
	Update(ctx context.Context, entry *OutboxEntry) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[OutboxStatus]int64, error)
}
