package event

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// OutboxWriter serializes domain events and stores them as outbox entries
// inside the caller's transaction, so the aggregate change and its events
// commit or roll back together.
type OutboxWriter struct {
	logger *zap.Logger
}

// NewOutboxWriter creates a writer.
func NewOutboxWriter(logger *zap.Logger) *OutboxWriter {
	return &OutboxWriter{logger: logger}
}

// SaveEvents writes one outbox entry per event using the given transaction.
func (w *OutboxWriter) SaveEvents(ctx context.Context, tx *gorm.DB, events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	repo := NewGormOutboxRepository(tx)
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("serialize event %s: %w", ev.EventType(), err)
		}
		entry := shared.NewOutboxEntry(ev, payload)
		if err := repo.Save(ctx, entry); err != nil {
			return fmt.Errorf("save outbox entry for %s: %w", ev.EventType(), err)
		}
		w.logger.Debug("event staged in outbox",
			zap.String("event_type", ev.EventType()),
			zap.String("event_id", ev.EventID().String()),
			zap.String("aggregate_id", ev.AggregateID().String()))
	}
	return nil
}
