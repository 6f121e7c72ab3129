package persistence

import (
	"context"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryLogRepository implements InventoryLogRepository using GORM.
// The ledger is append-only, so there is no update or delete.
type GormInventoryLogRepository struct {
	db *gorm.DB
}

// NewGormInventoryLogRepository creates a new GormInventoryLogRepository
func NewGormInventoryLogRepository(db *gorm.DB) *GormInventoryLogRepository {
	return &GormInventoryLogRepository{db: db}
}

// Create appends a ledger row
func (r *GormInventoryLogRepository) Create(ctx context.Context, log *inventory.InventoryLog) error {
	return r.db.WithContext(ctx).Create(models.InventoryLogModelFromDomain(log)).Error
}

// FindByBook lists a book's ledger, newest first
func (r *GormInventoryLogRepository) FindByBook(ctx context.Context, bookID uuid.UUID, filter shared.Filter) ([]inventory.InventoryLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryLogModel{}).Where("book_id = ?", bookID)
	if reason, ok := filter.Filters["reason"].(string); ok && reason != "" {
		query = query.Where("reason = ?", reason)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InventoryLogModel
	q := query.Order(ledgerSort.clause(filter.OrderBy, filter.OrderDir))
	if filter.PageSize > 0 {
		q = q.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toInventoryLogs(rows), total, nil
}

// FindByOrder lists ledger rows written for an order, oldest first
func (r *GormInventoryLogRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.InventoryLog, error) {
	var rows []models.InventoryLogModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("timestamp_utc ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInventoryLogs(rows), nil
}

// SumByBook adds up every change recorded for a book
func (r *GormInventoryLogRepository) SumByBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryLogModel{}).
		Where("book_id = ?", bookID).
		Select("COALESCE(SUM(change_quantity), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return int(sum), nil
}

func toInventoryLogs(rows []models.InventoryLogModel) []inventory.InventoryLog {
	logs := make([]inventory.InventoryLog, len(rows))
	for i := range rows {
		logs[i] = *rows[i].ToDomain()
	}
	return logs
}

// Ensure GormInventoryLogRepository implements InventoryLogRepository
var _ inventory.InventoryLogRepository = (*GormInventoryLogRepository)(nil)
