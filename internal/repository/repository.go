package repository

import (
	"context"
	"errors"

	"hostelhub/internal/database"

	"gorm.io/gorm"
)

// firstOrNil runs a First query and maps a missing row to (nil, nil).
func firstOrNil[T any](q *gorm.DB, conds ...interface{}) (*T, error) {
	var out T
	err := q.First(&out, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	return database.Conn(ctx, db)
}
