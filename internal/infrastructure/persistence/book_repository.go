package persistence

import (
	"context"
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBookRepository implements BookRepository using GORM
type GormBookRepository struct {
	db *gorm.DB
}

// NewGormBookRepository creates a new GormBookRepository
func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// FindByID finds a book by its ID
func (r *GormBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	model, err := first[models.BookModel](r.db.WithContext(ctx), "id = ?", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the books among ids
func (r *GormBookRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Book, error) {
	if len(ids) == 0 {
		return []catalog.Book{}, nil
	}
	var rows []models.BookModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	books := make([]catalog.Book, len(rows))
	for i := range rows {
		books[i] = *rows[i].ToDomain()
	}
	return books, nil
}

// FindByIDForUpdate reads the book with SELECT ... FOR UPDATE
func (r *GormBookRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	model, err := first[models.BookModel](r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists books that are not soft-deleted
func (r *GormBookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Book, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BookModel{}).Where("is_deleted = ?", false)
	if search, ok := filter.Filters["search"].(string); ok && search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR isbn = ?", like, like, search)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BookModel
	err := query.
		Order(bookSort.clause(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	books := make([]catalog.Book, len(rows))
	for i := range rows {
		books[i] = *rows[i].ToDomain()
	}
	return books, total, nil
}

// Save creates or updates a book
func (r *GormBookRepository) Save(ctx context.Context, book *catalog.Book) error {
	return r.db.WithContext(ctx).Save(models.BookModelFromDomain(book)).Error
}

// SaveStock writes the stock counter and version guarded by expectedVersion
func (r *GormBookRepository) SaveStock(ctx context.Context, book *catalog.Book, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&models.BookModel{}).
		Where("id = ? AND version = ?", book.ID, expectedVersion).
		Updates(map[string]any{
			"stock_quantity": book.StockQuantity,
			"version":        book.Version,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict, "book stock was modified by another transaction")
	}
	return nil
}

// Ensure GormBookRepository implements BookRepository
var _ catalog.BookRepository = (*GormBookRepository)(nil)
