package persistence

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gemstok/inventory/internal/domain/shared"
	"github.com/gemstok/inventory/internal/infrastructure/config"
	"github.com/gemstok/inventory/internal/infrastructure/persistence/models"
)

// Database wraps the GORM connection.
type Database struct {
	DB *gorm.DB
}

// NewDatabase creates a database connection with connection pooling configured
// from the service config.
func NewDatabase(cfg *config.Config) (*Database, error) {
	return NewDatabaseWithLogger(cfg, gormlogger.Default.LogMode(gormlogger.Warn))
}

// NewDatabaseWithLogger creates a database connection with a custom GORM logger.
func NewDatabaseWithLogger(cfg *config.Config, logger gormlogger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger,
		// Transactions are managed explicitly through TransactionScope.
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleTime) * time.Minute)

	return &Database{DB: db}, nil
}

// Migrate creates or updates the schema for every persistence model.
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
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
	)
}

// Ping verifies the database connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the database connection.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ConnectionStats reports pool usage for the health endpoint.
func (d *Database) ConnectionStats() (map[string]interface{}, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, err
	}
	stats := sqlDB.Stats()
	return map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration":    stats.WaitDuration.String(),
	}, nil
}
