package persistence

import (
	"context"
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order with its lines and shipping address
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error
}

// FindByID loads an order with its lines and shipping address
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.findOne(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads an order and holds a row lock on it
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) findOne(db *gorm.DB, id uuid.UUID) (*trade.Order, error) {
	model, err := first[models.OrderModel](db.Preload("Details").Preload("ShippingAddress"), "id = ?", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists a customer's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("user_id = ?", userID)
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	err := query.
		Preload("Details").
		Preload("ShippingAddress").
		Order(orderSort.clause(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// UpdateStatus writes the lifecycle fields when the stored version still
// equals expectedVersion
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *trade.Order, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Updates(map[string]any{
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
			"completed_at":   order.CompletedAt,
			"cancelled_at":   order.CancelledAt,
			"version":        order.Version,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict, "order was modified by another transaction")
	}
	return nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
