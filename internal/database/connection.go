// Package database opens the GORM connection used for saved results.
package database

import (
	"fmt"

	"github.com/iwvelando/anvil-calc/internal/config"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/constants"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const memoryPath = ":memory:"

// DSN builds the postgres connection string. A configured URL wins over the
// individual fields.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s", cfg.Host, cfg.User, cfg.Password, cfg.Name)
	if cfg.Port != 0 {
		dsn += fmt.Sprintf(" port=%d", cfg.Port)
	}
	if cfg.SSLMode != "" {
		dsn += " sslmode=" + cfg.SSLMode
	}
	return dsn
}

// NewConnection opens a database connection for the configured driver.
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case constants.DatabasePostgres:
		dialector = postgres.Open(DSN(cfg))
	case constants.DatabaseSQLite:
		path := cfg.Path
		if path == "" {
			path = memoryPath
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	switch {
	case cfg.Type == constants.DatabasePostgres:
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	case cfg.Path == "" || cfg.Path == memoryPath:
		// Every new connection to :memory: is a separate empty database.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Open connects and migrates.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewTestConnection creates a migrated in-memory SQLite database.
func NewTestConnection() (*gorm.DB, error) {
	return Open(&config.DatabaseConfig{
		Type: constants.DatabaseSQLite,
		Path: memoryPath,
	})
}

// AutoMigrate creates or updates the tables for every stored model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(store.Models()...)
}

// Close closes the database connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
