package catalog

import (
	"context"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BookRepository defines persistence for books
type BookRepository interface {
	// FindByID returns the book including soft-deleted ones
	FindByID(ctx context.Context, id uuid.UUID) (*Book, error)

	// FindByIDs returns the books that exist among ids, in no particular order
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Book, error)

	// FindByIDForUpdate reads the book under a row-exclusive lock held until
	// the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Book, error)

	// FindAll lists non-deleted books
	FindAll(ctx context.Context, filter shared.Filter) ([]Book, int64, error)

	// Save creates or updates a book
	Save(ctx context.Context, book *Book) error

	// SaveStock persists StockQuantity and Version, succeeding only when the
	// stored version equals expectedVersion
	SaveStock(ctx context.Context, book *Book, expectedVersion int) error
}
