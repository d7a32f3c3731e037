package event

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// BusPublisher is the slice of the message bus publisher the relay needs.
// Outbox payloads are stored fully encoded, so only the raw publish is used.
type BusPublisher interface {
	PublishRaw(ctx context.Context, routingKey string, body []byte, headers amqp.Table) error
}

// OutboxRelayConfig tunes the relay loops.
type OutboxRelayConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultOutboxRelayConfig returns the production defaults.
func DefaultOutboxRelayConfig() OutboxRelayConfig {
	return OutboxRelayConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// OutboxRelay polls the outbox and publishes committed events to the bus.
// The entry's event type is the routing key. Failures are retried with the
// entry's own backoff schedule; exhausted entries stay in the table as DEAD
// for manual replay.
type OutboxRelay struct {
	repo      shared.OutboxRepository
	publisher BusPublisher
	config    OutboxRelayConfig
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOutboxRelay creates a relay.
func NewOutboxRelay(repo shared.OutboxRepository, publisher BusPublisher, config OutboxRelayConfig, logger *zap.Logger) *OutboxRelay {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	return &OutboxRelay{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
	}
}

// Start launches the poll loop and, when enabled, the cleanup loop.
func (r *OutboxRelay) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.pollLoop(ctx)

	if r.config.CleanupEnabled {
		r.wg.Add(1)
		go r.cleanupLoop(ctx)
	}

	r.logger.Info("outbox relay started",
		zap.Int("batch_size", r.config.BatchSize),
		zap.Duration("poll_interval", r.config.PollInterval))
}

// Stop cancels the loops and waits for them to drain.
func (r *OutboxRelay) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.logger.Info("outbox relay stopped")
}

func (r *OutboxRelay) pollLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch publishes one batch of pending and retryable entries.
// Exported so tests and operational tooling can drive the relay directly.
func (r *OutboxRelay) ProcessBatch(ctx context.Context) {
	pending, err := r.repo.FindPending(ctx, r.config.BatchSize)
	if err != nil {
		r.logger.Error("failed to load pending outbox entries", zap.Error(err))
		return
	}
	retryable, err := r.repo.FindRetryable(ctx, r.config.BatchSize)
	if err != nil {
		r.logger.Error("failed to load retryable outbox entries", zap.Error(err))
		return
	}

	entries := append(pending, retryable...)
	if len(entries) == 0 {
		return
	}

	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	if err := r.repo.MarkProcessing(ctx, ids); err != nil {
		r.logger.Error("failed to claim outbox entries", zap.Error(err))
		return
	}

	for _, entry := range entries {
		r.publishEntry(ctx, entry)
	}
}

func (r *OutboxRelay) publishEntry(ctx context.Context, entry *shared.OutboxEntry) {
	entry.MarkProcessing()

	headers := amqp.Table{"x-event-id": entry.EventID.String()}
	if err := r.publisher.PublishRaw(ctx, entry.EventType, entry.Payload, headers); err != nil {
		entry.MarkFailed(err.Error())
		if entry.IsDead() {
			r.logger.Error("outbox entry exhausted retries",
				zap.String("entry_id", entry.ID.String()),
				zap.String("event_type", entry.EventType),
				zap.Int("retry_count", entry.RetryCount),
				zap.Error(err))
		} else {
			r.logger.Warn("outbox publish failed, will retry",
				zap.String("entry_id", entry.ID.String()),
				zap.String("event_type", entry.EventType),
				zap.Int("retry_count", entry.RetryCount),
				zap.Timep("next_retry_at", entry.NextRetryAt),
				zap.Error(err))
		}
	} else {
		entry.MarkSent()
		r.logger.Debug("outbox entry published",
			zap.String("entry_id", entry.ID.String()),
			zap.String("event_type", entry.EventType))
	}

	if err := r.repo.Update(ctx, entry); err != nil {
		r.logger.Error("failed to update outbox entry",
			zap.String("entry_id", entry.ID.String()),
			zap.Error(err))
	}
}

func (r *OutboxRelay) cleanupLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-r.config.CleanupRetention)
			deleted, err := r.repo.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				r.logger.Error("outbox cleanup failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				r.logger.Info("outbox cleanup removed sent entries", zap.Int64("deleted", deleted))
			}
		}
	}
}
