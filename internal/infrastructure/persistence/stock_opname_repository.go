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

// GormStockOpnameRepository implements inventory.StockOpnameRepository using GORM.
type GormStockOpnameRepository struct {
	db *gorm.DB
}

// NewGormStockOpnameRepository creates a new GormStockOpnameRepository.
func NewGormStockOpnameRepository(db *gorm.DB) *GormStockOpnameRepository {
	return &GormStockOpnameRepository{db: db}
}

// Save inserts the opname header together with its frozen detail rows.
func (r *GormStockOpnameRepository) Save(ctx context.Context, opname *inventory.StockOpname) error {
	model := models.StockOpnameModelFromDomain(opname)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists the header with an optimistic version check. The domain
// increments the version before calling this, so the row must still carry the
// previous version; otherwise another writer won and the caller gets
// shared.ErrConcurrencyConflict.
func (r *GormStockOpnameRepository) Update(ctx context.Context, opname *inventory.StockOpname) error {
	result := r.db.WithContext(ctx).
		Model(&models.StockOpnameModel{}).
		Where("id = ? AND version = ?", opname.ID, opname.Version-1).
		Updates(map[string]interface{}{
			"trans_date":  opname.TransDate,
			"status":      int(opname.Status),
			"description": opname.Description,
			"approve_by":  opname.ApproveBy,
			"approve_at":  opname.ApproveAt,
			"version":     opname.Version,
			"updated_at":  opname.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SaveDetail persists one scan result.
func (r *GormStockOpnameRepository) SaveDetail(ctx context.Context, detail *inventory.StockOpnameDetail) error {
	model := models.StockOpnameDetailModelFromDomain(detail)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// Upsert is the replica apply path for the header. Detail rows travel in
// their own events and are applied through UpsertDetail.
func (r *GormStockOpnameRepository) Upsert(ctx context.Context, opname *inventory.StockOpname) error {
	model := models.StockOpnameModelFromDomain(opname)
	return r.db.WithContext(ctx).
		Omit("Details").
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// UpsertDetail is the replica apply path for one detail row.
func (r *GormStockOpnameRepository) UpsertDetail(ctx context.Context, detail *inventory.StockOpnameDetail) error {
	return r.SaveDetail(ctx, detail)
}

// FindByID finds an opname by its ID with all detail rows loaded.
func (r *GormStockOpnameRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockOpname, error) {
	var model models.StockOpnameModel
	if err := r.db.WithContext(ctx).
		Preload("Details").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves a page of opname headers without their detail rows.
func (r *GormStockOpnameRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.StockOpname], error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.StockOpnameModel{})
	for field, value := range filter.Filters {
		switch field {
		case "store_id", "category_id", "status":
			query = query.Where(fmt.Sprintf("%s = ?", field), value)
		case "trans_date_from":
			query = query.Where("trans_date >= ?", value)
		case "trans_date_to":
			query = query.Where("trans_date <= ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, StockOpnameSortFields, "trans_date")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.StockOpnameModel
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*inventory.StockOpname, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return &shared.Paginated[*inventory.StockOpname]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Delete removes the opname header and all of its detail rows.
func (r *GormStockOpnameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock_opname_id = ?", id).
			Delete(&models.StockOpnameDetailModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.StockOpnameModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ inventory.StockOpnameRepository = (*GormStockOpnameRepository)(nil)
