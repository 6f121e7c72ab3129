package persistence

import (
	"context"

	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormSupplierRepository struct {
	db *gorm.DB
}

func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	row, err := first[models.SupplierModel](r.db.WithContext(ctx), "id = ?", id)
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// Save upserts on id; created_at is kept from the first insert
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "contact_name", "phone", "email", "address", "status", "version", "updated_at"}),
		}).
		Create(models.SupplierModelFromDomain(supplier)).Error
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
