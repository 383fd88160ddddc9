package database

import (
	"fmt"

	"github.com/Aidin1998/publications/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB creates a new PostgreSQL database connection with pooling
func NewPostgresDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// Create database connection with prepared statement caching
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:      newGormLogger(cfg.LogLevel),
		PrepareStmt: true,
		// Single statements do not need the implicit transaction
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings from the environment's database block
	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}
