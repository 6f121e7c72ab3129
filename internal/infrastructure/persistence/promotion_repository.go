package persistence

import (
	"context"
	"time"

	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPromotionRepository implements PromotionRepository using GORM
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// FindByID finds a promotion by ID
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Promotion, error) {
	model, err := first[models.PromotionModel](r.db.WithContext(ctx), "id = ?", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a promotion by code, ignoring case
func (r *GormPromotionRepository) FindByCode(ctx context.Context, code string) (*promotion.Promotion, error) {
	model, err := first[models.PromotionModel](r.db.WithContext(ctx), "code = ?", promotion.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCode reports whether the code is taken
func (r *GormPromotionRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PromotionModel{}).
		Where("code = ?", promotion.NormalizeCode(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a promotion
func (r *GormPromotionRepository) Save(ctx context.Context, promo *promotion.Promotion) error {
	return r.db.WithContext(ctx).Save(models.PromotionModelFromDomain(promo)).Error
}

// IncrementUsage consumes one use. The limit check and the increment are a
// single UPDATE, so two checkouts racing for the last use cannot both win.
func (r *GormPromotionRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.PromotionModel{}).
		Where("id = ? AND is_active = ? AND (max_usage IS NULL OR current_usage < max_usage)", id, true).
		Updates(map[string]any{
			"current_usage": gorm.Expr("current_usage + 1"),
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewValidationError("promotion has reached its usage limit")
	}
	return nil
}

// Deactivate switches an active promotion off. Only is_active, version and
// updated_at are written, so a concurrent IncrementUsage is never undone.
func (r *GormPromotionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.PromotionModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"is_active":  false,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return shared.NewDomainError(shared.CodeInvalidState, "promotion is already inactive")
}

// Ensure GormPromotionRepository implements PromotionRepository
var _ promotion.PromotionRepository = (*GormPromotionRepository)(nil)
