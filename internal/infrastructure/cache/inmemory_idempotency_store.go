package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed event IDs in a map. Suitable for
// single-instance deployments and tests; state is lost on restart, which the
// upsert-based apply path tolerates.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	expiry    map[uuid.UUID]time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates a store and starts its expiry sweeper.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		expiry: make(map[uuid.UUID]time.Time),
		stop:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweep()
	return s
}

// MarkProcessed records the event ID, returning false when it is already
// present and unexpired.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID uuid.UUID, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if exp, ok := s.expiry[eventID]; ok && time.Now().Before(exp) {
		return false, nil
	}
	s.expiry[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether the event ID is recorded and unexpired.
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, ok := s.expiry[eventID]
	return ok && time.Now().Before(exp), nil
}

// Close stops the sweeper.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
	return nil
}

func (s *InMemoryIdempotencyStore) sweep() {
	defer s.wg.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, exp := range s.expiry {
				if now.After(exp) {
					delete(s.expiry, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
