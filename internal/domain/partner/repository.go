package partner

import (
	"context"

	"github.com/google/uuid"
)

// SupplierRepository persists suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
}
