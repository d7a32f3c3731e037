package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvent struct {
	BaseDomainEvent
}

func newStubEvent() stubEvent {
	return stubEvent{
		BaseDomainEvent: NewBaseDomainEvent("stock.opname.approved", uuid.New(), "StockOpname", uuid.New()),
	}
}

func TestNewOutboxEntry(t *testing.T) {
	event := newStubEvent()
	entry := NewOutboxEntry(event, []byte(`{"data":{}}`))

	assert.Equal(t, event.EventID(), entry.EventID)
	assert.Equal(t, "stock.opname.approved", entry.EventType)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, OutboxMaxRetries, entry.MaxRetries)
	assert.Zero(t, entry.RetryCount)
}

func TestOutboxEntry_MarkFailedBackoff(t *testing.T) {
	entry := NewOutboxEntry(newStubEvent(), []byte(`{}`))

	entry.MarkFailed("connection refused")
	require.Equal(t, OutboxStatusFailed, entry.Status)
	require.NotNil(t, entry.NextRetryAt)
	assert.Equal(t, 1, entry.RetryCount)
	assert.Equal(t, "connection refused", entry.LastError)

	first := *entry.NextRetryAt
	entry.NextRetryAt = nil
	entry.Status = OutboxStatusProcessing
	entry.MarkFailed("connection refused")
	require.NotNil(t, entry.NextRetryAt)
	// second backoff doubles the first
	assert.True(t, entry.NextRetryAt.After(first))
}

func TestOutboxEntry_MarkFailedExhaustsToDead(t *testing.T) {
	entry := NewOutboxEntry(newStubEvent(), []byte(`{}`))

	for i := 0; i < OutboxMaxRetries; i++ {
		entry.MarkFailed("broker down")
	}

	assert.True(t, entry.IsDead())
	assert.Equal(t, OutboxStatusDead, entry.Status)
	assert.Nil(t, entry.NextRetryAt)
	assert.False(t, entry.CanRetry())
}

func TestOutboxEntry_CanRetry(t *testing.T) {
	entry := NewOutboxEntry(newStubEvent(), []byte(`{}`))
	assert.False(t, entry.CanRetry(), "pending entries are picked up directly, not retried")

	entry.MarkFailed("timeout")
	assert.False(t, entry.CanRetry(), "backoff window not elapsed yet")

	past := time.Now().Add(-time.Minute)
	entry.NextRetryAt = &past
	assert.True(t, entry.CanRetry())
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	entry := NewOutboxEntry(newStubEvent(), []byte(`{}`))
	for i := 0; i < OutboxMaxRetries; i++ {
		entry.MarkFailed("broker down")
	}
	require.True(t, entry.IsDead())

	entry.ResetForRetry()

	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Zero(t, entry.RetryCount)
	assert.Empty(t, entry.LastError)
	assert.Nil(t, entry.NextRetryAt)
}

func TestOutboxEntry_MarkSent(t *testing.T) {
	entry := NewOutboxEntry(newStubEvent(), []byte(`{}`))
	entry.MarkProcessing()
	require.Equal(t, OutboxStatusProcessing, entry.Status)

	entry.MarkSent()

	assert.Equal(t, OutboxStatusSent, entry.Status)
	require.NotNil(t, entry.SentAt)
}
