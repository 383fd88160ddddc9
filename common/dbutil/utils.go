package dbutil

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Select returns every row of T's table ordered by primary key.
// The result is never nil so it always encodes as a JSON array.
func Select[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	items := make([]T, 0)
	result := db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.PrimaryColumn}).
		Find(&items)
	if result.Error != nil {
		return nil, WrapError(result.Error)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Where returns the rows of T's table whose column equals value
func Where[T any](ctx context.Context, db *gorm.DB, column string, value any) ([]T, error) {
	items := make([]T, 0)
	result := db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Order(clause.OrderByColumn{Column: clause.PrimaryColumn}).
		Find(&items)
	if result.Error != nil {
		return nil, WrapError(result.Error)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Insert creates record; generated columns such as the primary key are
// written back into it.
func Insert[T any](ctx context.Context, db *gorm.DB, record *T) error {
	return WrapError(db.WithContext(ctx).Create(record).Error)
}
