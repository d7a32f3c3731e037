package persistence

import (
	"context"

	"gorm.io/gorm"

	appcatalog "github.com/gemstok/inventory/internal/application/catalog"
	appinv "github.com/gemstok/inventory/internal/application/inventory"
	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
	"github.com/gemstok/inventory/internal/infrastructure/event"
)

// GormTransactionScope implements the inventory TransactionScope using GORM
// transactions. Repository writes and outbox entries commit atomically.
type GormTransactionScope struct {
	db     *gorm.DB
	outbox *event.OutboxWriter
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, outbox *event.OutboxWriter) *GormTransactionScope {
	return &GormTransactionScope{db: db, outbox: outbox}
}

// Execute runs the given function within a database transaction.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, outbox: s.outbox})
	})
}

// gormTransactionalRepositories provides repository access within one transaction.
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	outbox *event.OutboxWriter
}

// ProductCodeRepo returns the product code repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductCodeRepo() inventory.ProductCodeRepository {
	return NewGormProductCodeRepository(r.tx)
}

// StockOpnameRepo returns the stock opname repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StockOpnameRepo() inventory.StockOpnameRepository {
	return NewGormStockOpnameRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// SaveEvents writes domain events to the outbox on the current transaction.
func (r *gormTransactionalRepositories) SaveEvents(ctx context.Context, events []shared.DomainEvent) error {
	return r.outbox.SaveEvents(ctx, r.tx, events)
}

// CatalogTransactionScope implements the catalog TransactionScope over the
// same transaction machinery.
type CatalogTransactionScope struct {
	db     *gorm.DB
	outbox *event.OutboxWriter
}

// NewCatalogTransactionScope creates a new CatalogTransactionScope.
func NewCatalogTransactionScope(db *gorm.DB, outbox *event.OutboxWriter) *CatalogTransactionScope {
	return &CatalogTransactionScope{db: db, outbox: outbox}
}

// Execute runs the given function within a database transaction.
func (s *CatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, outbox: s.outbox})
	})
}

// Ensure the scopes satisfy their application interfaces.
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ appcatalog.TransactionScope = (*CatalogTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appcatalog.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
