package persistence

import (
	"errors"

	"github.com/bookstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// first loads a single row into a new M; a missing row is shared.ErrNotFound
func first[M any](q *gorm.DB, conds ...any) (*M, error) {
	var row M
	if err := q.First(&row, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}
