package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gemstok/inventory/internal/domain/shared"
)

// Idempotent wraps a handler so redelivered envelopes are applied once,
// keyed by the envelope event ID.
//
// The store is consulted before processing and marked after success, so a
// failed handler stays retryable. When the store itself is unavailable the
// envelope is processed anyway: replica applies are upserts, so a rare
// duplicate is safer than losing the event.
func Idempotent(store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger, next HandlerFunc) HandlerFunc {
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	return func(ctx context.Context, env Envelope) error {
		if env.EventID == uuid.Nil {
			return next(ctx, env)
		}

		processed, err := store.IsProcessed(ctx, env.EventID)
		if err != nil {
			logger.Warn("idempotency store unavailable, processing anyway",
				zap.String("event_id", env.EventID.String()),
				zap.Error(err))
			return next(ctx, env)
		}
		if processed {
			logger.Debug("duplicate event skipped",
				zap.String("event_id", env.EventID.String()))
			return nil
		}

		if err := next(ctx, env); err != nil {
			return err
		}

		if _, err := store.MarkProcessed(ctx, env.EventID, ttl); err != nil {
			logger.Warn("failed to record processed event",
				zap.String("event_id", env.EventID.String()),
				zap.Error(err))
		}
		return nil
	}
}
