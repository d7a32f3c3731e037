package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appinv "github.com/gemstok/inventory/internal/application/inventory"
	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
	"github.com/gemstok/inventory/internal/infrastructure/event"
)

func TestGormTransactionScope_CommitsWritesAndOutboxTogether(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db, event.NewOutboxWriter(zap.NewNop()))

	opname, err := inventory.NewStockOpname(uuid.New(), uuid.New(), time.Now(), "", uuid.New())
	require.NoError(t, err)
	opname.Freeze(uuid.New())

	err = scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		if err := repos.StockOpnameRepo().Save(context.Background(), opname); err != nil {
			return err
		}
		return repos.SaveEvents(context.Background(), opname.GetDomainEvents())
	})
	require.NoError(t, err)

	_, err = NewGormStockOpnameRepository(db).FindByID(context.Background(), opname.ID)
	require.NoError(t, err)

	var outboxCount int64
	require.NoError(t, db.Model(&shared.OutboxEntry{}).Count(&outboxCount).Error)
	assert.Equal(t, int64(1), outboxCount)
}

func TestGormTransactionScope_RollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db, event.NewOutboxWriter(zap.NewNop()))

	opname, err := inventory.NewStockOpname(uuid.New(), uuid.New(), time.Now(), "", uuid.New())
	require.NoError(t, err)
	opname.Freeze(uuid.New())

	err = scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		if err := repos.StockOpnameRepo().Save(context.Background(), opname); err != nil {
			return err
		}
		if err := repos.SaveEvents(context.Background(), opname.GetDomainEvents()); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	// neither the opname nor its events survived the rollback
	_, err = NewGormStockOpnameRepository(db).FindByID(context.Background(), opname.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var outboxCount int64
	require.NoError(t, db.Model(&shared.OutboxEntry{}).Count(&outboxCount).Error)
	assert.Zero(t, outboxCount)
}
