package promotion

import (
	"context"

	"github.com/google/uuid"
)

// PromotionRepository persists promotions
type PromotionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)

	// FindByCode looks a promotion up by its normalized code
	FindByCode(ctx context.Context, code string) (*Promotion, error)

	ExistsByCode(ctx context.Context, code string) (bool, error)

	Save(ctx context.Context, promo *Promotion) error

	// Deactivate clears IsActive without touching the usage counter
	Deactivate(ctx context.Context, id uuid.UUID) error

	// IncrementUsage adds one use in a single guarded statement so concurrent
	// callers can never push CurrentUsage past MaxUsage
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
