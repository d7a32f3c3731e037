package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// Replicator is the apply routine for one replicated master entity. Created
// and updated events converge on the same upsert, and deletes tolerate already
// missing rows, so the broker's at-least-once delivery never corrupts the
// local copy.
type Replicator[T any] struct {
	name   string
	repo   catalog.ReplicaRepository[T]
	logger *zap.Logger
}

// NewReplicator creates a replicator for one entity kind. The name only shows
// up in logs.
func NewReplicator[T any](name string, repo catalog.ReplicaRepository[T], logger *zap.Logger) *Replicator[T] {
	return &Replicator[T]{name: name, repo: repo, logger: logger}
}

// Apply upserts the local copy from full event state.
func (r *Replicator[T]) Apply(ctx context.Context, state *T) error {
	if err := r.repo.Upsert(ctx, state); err != nil {
		return err
	}
	r.logger.Debug("replica applied", zap.String("entity", r.name))
	return nil
}

// ApplyDelete removes the local copy, treating an already missing row as done.
func (r *Replicator[T]) ApplyDelete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	r.logger.Debug("replica deleted", zap.String("entity", r.name), zap.String("id", id.String()))
	return nil
}
