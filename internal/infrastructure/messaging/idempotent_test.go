package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubIdempotencyStore struct {
	processed map[uuid.UUID]bool
	failWith  error
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{processed: make(map[uuid.UUID]bool)}
}

func (s *stubIdempotencyStore) MarkProcessed(_ context.Context, eventID uuid.UUID, _ time.Duration) (bool, error) {
	if s.failWith != nil {
		return false, s.failWith
	}
	if s.processed[eventID] {
		return false, nil
	}
	s.processed[eventID] = true
	return true, nil
}

func (s *stubIdempotencyStore) IsProcessed(_ context.Context, eventID uuid.UUID) (bool, error) {
	if s.failWith != nil {
		return false, s.failWith
	}
	return s.processed[eventID], nil
}

func (s *stubIdempotencyStore) Close() error { return nil }

func TestIdempotent_ProcessesOnce(t *testing.T) {
	store := newStubIdempotencyStore()
	calls := 0
	h := Idempotent(store, time.Hour, zap.NewNop(), func(context.Context, Envelope) error {
		calls++
		return nil
	})

	env := Envelope{EventID: uuid.New(), Data: []byte(`{}`)}
	require.NoError(t, h(context.Background(), env))
	require.NoError(t, h(context.Background(), env))

	assert.Equal(t, 1, calls)
}

func TestIdempotent_FailureStaysRetryable(t *testing.T) {
	store := newStubIdempotencyStore()
	calls := 0
	h := Idempotent(store, time.Hour, zap.NewNop(), func(context.Context, Envelope) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})

	env := Envelope{EventID: uuid.New(), Data: []byte(`{}`)}
	require.Error(t, h(context.Background(), env))
	require.NoError(t, h(context.Background(), env))
	assert.Equal(t, 2, calls)

	// now it is marked and further deliveries are skipped
	require.NoError(t, h(context.Background(), env))
	assert.Equal(t, 2, calls)
}

func TestIdempotent_StoreFailureProcessesAnyway(t *testing.T) {
	store := newStubIdempotencyStore()
	store.failWith = errors.New("redis down")
	calls := 0
	h := Idempotent(store, time.Hour, zap.NewNop(), func(context.Context, Envelope) error {
		calls++
		return nil
	})

	env := Envelope{EventID: uuid.New(), Data: []byte(`{}`)}
	require.NoError(t, h(context.Background(), env))
	assert.Equal(t, 1, calls)
}

func TestIdempotent_NoEventIDBypasses(t *testing.T) {
	store := newStubIdempotencyStore()
	calls := 0
	h := Idempotent(store, time.Hour, zap.NewNop(), func(context.Context, Envelope) error {
		calls++
		return nil
	})

	env := Envelope{Data: []byte(`{}`)}
	require.NoError(t, h(context.Background(), env))
	require.NoError(t, h(context.Background(), env))
	assert.Equal(t, 2, calls)
}
