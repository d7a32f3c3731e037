package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/shared"
	"github.com/gemstok/inventory/internal/infrastructure/persistence/models"
)

// GormReplicaRepository is a generic catalog.ReplicaRepository backed by one
// table. Upsert writes the full row keyed by the originating ID, which is
// what makes replays and out-of-order applies converge.
type GormReplicaRepository[D any, M any] struct {
	db       *gorm.DB
	toModel  func(*D) *M
	toDomain func(*M) *D
}

// NewGormReplicaRepository creates a replica repository from a model converter pair.
func NewGormReplicaRepository[D any, M any](db *gorm.DB, toModel func(*D) *M, toDomain func(*M) *D) *GormReplicaRepository[D, M] {
	return &GormReplicaRepository[D, M]{db: db, toModel: toModel, toDomain: toDomain}
}

// Upsert inserts or fully replaces the local copy.
func (r *GormReplicaRepository[D, M]) Upsert(ctx context.Context, entity *D) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(r.toModel(entity)).Error
}

// FindByID finds the local copy by its originating ID.
func (r *GormReplicaRepository[D, M]) FindByID(ctx context.Context, id uuid.UUID) (*D, error) {
	var model M
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model), nil
}

// Delete removes the local copy.
func (r *GormReplicaRepository[D, M]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NewCompanyReplicaRepository creates the company replica repository.
func NewCompanyReplicaRepository(db *gorm.DB) catalog.ReplicaRepository[catalog.Company] {
	return NewGormReplicaRepository(db, models.CompanyModelFromDomain, (*models.CompanyModel).ToDomain)
}

// NewStoreReplicaRepository creates the store replica repository.
func NewStoreReplicaRepository(db *gorm.DB) catalog.ReplicaRepository[catalog.Store] {
	return NewGormReplicaRepository(db, models.StoreModelFromDomain, (*models.StoreModel).ToDomain)
}

// NewCategoryReplicaRepository creates the category replica repository.
func NewCategoryReplicaRepository(db *gorm.DB) catalog.ReplicaRepository[catalog.Category] {
	return NewGormReplicaRepository(db, models.CategoryModelFromDomain, (*models.CategoryModel).ToDomain)
}

// NewProductTypeReplicaRepository creates the product type replica repository.
func NewProductTypeReplicaRepository(db *gorm.DB) catalog.ReplicaRepository[catalog.ProductType] {
	return NewGormReplicaRepository(db, models.ProductTypeModelFromDomain, (*models.ProductTypeModel).ToDomain)
}

// NewPriceReplicaRepository creates the price replica repository.
func NewPriceReplicaRepository(db *gorm.DB) catalog.ReplicaRepository[catalog.Price] {
	return NewGormReplicaRepository(db, models.PriceModelFromDomain, (*models.PriceModel).ToDomain)
}

// NewAccountReplicaRepository creates the account replica repository.
func NewAccountReplicaRepository(db *gorm.DB) catalog.ReplicaRepository[catalog.Account] {
	return NewGormReplicaRepository(db, models.AccountModelFromDomain, (*models.AccountModel).ToDomain)
}
