package database

import (
	"fmt"

	"github.com/Aidin1998/publications/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a SQLite database file, used for local environments
// that have no PostgreSQL server.
func NewSQLiteDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger:                 newGormLogger(cfg.LogLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite serialises writers; more than one open connection only adds
	// "database is locked" errors.
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}
