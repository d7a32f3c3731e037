package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
	"github.com/gemstok/inventory/internal/infrastructure/persistence/models"
)

// GormProductCodeRepository implements inventory.ProductCodeRepository using GORM.
type GormProductCodeRepository struct {
	db *gorm.DB
}

// NewGormProductCodeRepository creates a new GormProductCodeRepository.
func NewGormProductCodeRepository(db *gorm.DB) *GormProductCodeRepository {
	return &GormProductCodeRepository{db: db}
}

// Save inserts or fully replaces one product code row.
func (r *GormProductCodeRepository) Save(ctx context.Context, code *inventory.ProductCode) error {
	model := models.ProductCodeModelFromDomain(code)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// SaveAll persists a batch of product codes in one statement.
func (r *GormProductCodeRepository) SaveAll(ctx context.Context, codes []*inventory.ProductCode) error {
	if len(codes) == 0 {
		return nil
	}
	rows := make([]models.ProductCodeModel, len(codes))
	for i, c := range codes {
		rows[i] = *models.ProductCodeModelFromDomain(c)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

// Upsert is the replica apply path; it is the same full-row write as Save.
func (r *GormProductCodeRepository) Upsert(ctx context.Context, code *inventory.ProductCode) error {
	return r.Save(ctx, code)
}

// FindByID finds a product code by its ID.
func (r *GormProductCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductCode, error) {
	var model models.ProductCodeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds all product codes in the given set. Missing IDs are simply
// absent from the result.
func (r *GormProductCodeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*inventory.ProductCode, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.ProductCodeModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainCodes(rows), nil
}

// FindByBarcode finds a product code by its unique barcode.
func (r *GormProductCodeRepository) FindByBarcode(ctx context.Context, barcode string) (*inventory.ProductCode, error) {
	var model models.ProductCodeModel
	if err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStoreAndCategory lists every code whose product belongs to the store
// and whose product type belongs to the category. This is the opname snapshot
// query; it deliberately ignores the code status.
func (r *GormProductCodeRepository) FindByStoreAndCategory(ctx context.Context, storeID, categoryID uuid.UUID) ([]*inventory.ProductCode, error) {
	var rows []models.ProductCodeModel
	err := r.db.WithContext(ctx).
		Model(&models.ProductCodeModel{}).
		Joins("JOIN products ON products.id = product_codes.product_id AND products.deleted_at IS NULL").
		Joins("JOIN product_types ON product_types.id = products.type_id").
		Where("products.store_id = ? AND product_types.category_id = ?", storeID, categoryID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainCodes(rows), nil
}

// FindAll retrieves a page of product codes.
func (r *GormProductCodeRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.ProductCode], error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.ProductCodeModel{})
	for field, value := range filter.Filters {
		switch field {
		case "product_id", "status", "taken_out_reason":
			query = query.Where(fmt.Sprintf("%s = ?", field), value)
		}
	}
	if filter.Search != "" {
		query = query.Where("barcode ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductCodeSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.ProductCodeModel
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return &shared.Paginated[*inventory.ProductCode]{
		Items:    toDomainCodes(rows),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// CountByProduct counts every code ever minted for a product, soft-deleted
// ones included. Barcode sequences must never be reused.
func (r *GormProductCodeRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductCodeModel{}).
		Unscoped().
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// Delete soft-deletes a product code.
func (r *GormProductCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductCodeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainCodes(rows []models.ProductCodeModel) []*inventory.ProductCode {
	out := make([]*inventory.ProductCode, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ inventory.ProductCodeRepository = (*GormProductCodeRepository)(nil)
