package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gemstok/inventory/internal/domain/shared"
	"github.com/gemstok/inventory/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.CompanyModel{},
		&models.StoreModel{},
		&models.CategoryModel{},
		&models.ProductTypeModel{},
		&models.PriceModel{},
		&models.AccountModel{},
		&models.ProductModel{},
		&models.ProductCodeModel{},
		&models.StockOpnameModel{},
		&models.StockOpnameDetailModel{},
		&shared.OutboxEntry{},
	))
	return db
}
