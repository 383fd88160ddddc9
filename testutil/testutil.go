package testutil

import (
	"testing"

	"github.com/Aidin1998/publications/pkg/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an in-memory SQLite database with the papers and footnotes
// tables migrated. The pool is pinned to one connection since every
// ":memory:" connection is a separate database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Paper{}, &models.Footnote{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// BreakDB closes the underlying pool so every later query fails, simulating
// a store outage.
func BreakDB(t testing.TB, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test db handle: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("failed to close test db: %v", err)
	}
}

// SeedPapers inserts papers and returns them with generated ids
func SeedPapers(t testing.TB, db *gorm.DB, papers ...models.Paper) []models.Paper {
	t.Helper()
	for i := range papers {
		if err := db.Create(&papers[i]).Error; err != nil {
			t.Fatalf("failed to seed paper: %v", err)
		}
	}
	return papers
}

// SeedFootnotes inserts footnotes and returns them with generated ids
func SeedFootnotes(t testing.TB, db *gorm.DB, footnotes ...models.Footnote) []models.Footnote {
	t.Helper()
	for i := range footnotes {
		if err := db.Create(&footnotes[i]).Error; err != nil {
			t.Fatalf("failed to seed footnote: %v", err)
		}
	}
	return footnotes
}
