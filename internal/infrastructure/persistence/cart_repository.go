package persistence

import (
	"context"

	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser returns the user's cart lines
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]trade.CartItem, error) {
	var rows []models.CartItemModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("book_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]trade.CartItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// Save upserts one cart line
func (r *GormCartRepository) Save(ctx context.Context, item *trade.CartItem) error {
	model := &models.CartItemModel{
		UserID:    item.UserID,
		BookID:    item.BookID,
		Quantity:  item.Quantity,
		UpdatedAt: item.UpdatedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(model).Error
}

// ClearForUser deletes every line of the user's cart
func (r *GormCartRepository) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItemModel{}).Error
}

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds a saved address
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Address, error) {
	model, err := first[models.AddressModel](r.db.WithContext(ctx), "id = ?", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an address
func (r *GormAddressRepository) Save(ctx context.Context, address *trade.Address) error {
	return r.db.WithContext(ctx).Save(models.AddressModelFromDomain(address)).Error
}

var (
	_ trade.CartRepository    = (*GormCartRepository)(nil)
	_ trade.AddressRepository = (*GormAddressRepository)(nil)
)
