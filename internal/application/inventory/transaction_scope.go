package inventory

import (
	"context"

	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// TransactionScope provides transactional access to the inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations and outbox writes are part of the same database transaction and
// are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within one
// transaction. SaveEvents writes domain events to the outbox table on the same
// transaction, which is what makes state changes and their notifications
// atomic.
type TransactionalRepositories interface {
	// ProductCodeRepo returns the product code repository scoped to the current transaction
	ProductCodeRepo() inventory.ProductCodeRepository
	// StockOpnameRepo returns the stock opname repository scoped to the current transaction
	StockOpnameRepo() inventory.StockOpnameRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// SaveEvents appends domain events to the transactional outbox
	SaveEvents(ctx context.Context, events []shared.DomainEvent) error
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing; saved events are collected on the struct.
type NoOpTransactionScope struct {
	codeRepo    inventory.ProductCodeRepository
	opnameRepo  inventory.StockOpnameRepository
	productRepo catalog.ProductRepository

	SavedEvents []shared.DomainEvent
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	codeRepo inventory.ProductCodeRepository,
	opnameRepo inventory.StockOpnameRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		codeRepo:    codeRepo,
		opnameRepo:  opnameRepo,
		productRepo: productRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductCodeRepo returns the product code repository.
func (s *NoOpTransactionScope) ProductCodeRepo() inventory.ProductCodeRepository {
	return s.codeRepo
}

// StockOpnameRepo returns the stock opname repository.
func (s *NoOpTransactionScope) StockOpnameRepo() inventory.StockOpnameRepository {
	return s.opnameRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// SaveEvents collects events in memory instead of writing an outbox.
func (s *NoOpTransactionScope) SaveEvents(_ context.Context, events []shared.DomainEvent) error {
	s.SavedEvents = append(s.SavedEvents, events...)
	return nil
}
