package catalog

import (
	"context"

	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/shared"
)

// TransactionScope runs product commands and their outbox writes in one
// database transaction.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current
// transaction.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	SaveEvents(ctx context.Context, events []shared.DomainEvent) error
}

// NoOpTransactionScope runs the function without a real transaction. Saved
// events are collected on the struct for test assertions.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository

	SavedEvents []shared.DomainEvent
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository.
func NewNoOpTransactionScope(productRepo catalog.ProductRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{productRepo: productRepo}
}

// Execute runs the function directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// SaveEvents collects events in memory.
func (s *NoOpTransactionScope) SaveEvents(_ context.Context, events []shared.DomainEvent) error {
	s.SavedEvents = append(s.SavedEvents, events...)
	return nil
}
