package persistence

import (
	"context"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockReceiptRepository implements StockReceiptRepository using GORM
type GormStockReceiptRepository struct {
	db *gorm.DB
}

// NewGormStockReceiptRepository creates a new GormStockReceiptRepository
func NewGormStockReceiptRepository(db *gorm.DB) *GormStockReceiptRepository {
	return &GormStockReceiptRepository{db: db}
}

// Save inserts the receipt and its lines
func (r *GormStockReceiptRepository) Save(ctx context.Context, receipt *inventory.StockReceipt) error {
	return r.db.WithContext(ctx).Create(models.StockReceiptModelFromDomain(receipt)).Error
}

// FindByID loads a receipt with its lines
func (r *GormStockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockReceipt, error) {
	model, err := first[models.StockReceiptModel](r.db.WithContext(ctx).Preload("Details"), "id = ?", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormStockReceiptRepository implements StockReceiptRepository
var _ inventory.StockReceiptRepository = (*GormStockReceiptRepository)(nil)
