package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Validator decides whether a code may be redeemed and what it is worth.
// It never changes usage counters.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a Validator using the wall clock
func NewValidator() *Validator {
	return &Validator{now: func() time.Time { return time.Now().UTC() }}
}

// NewValidatorWithClock creates a Validator with a fixed time source
func NewValidatorWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Evaluate looks code up through repo and returns the promotion together
// with the discount it grants on subtotal.
func (v *Validator) Evaluate(ctx context.Context, repo promotion.PromotionRepository, code string, subtotal decimal.Decimal) (*promotion.Promotion, decimal.Decimal, error) {
	normalized := promotion.NormalizeCode(code)
	if normalized == "" {
		return nil, decimal.Zero, shared.NewValidationError("promotion code cannot be empty")
	}

	promo, err := repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, decimal.Zero, shared.NewDomainError(shared.CodeNotFound, "invalid promotion code")
		}
		return nil, decimal.Zero, err
	}
	if err := promo.CheckRedeemable(v.now()); err != nil {
		return nil, decimal.Zero, err
	}
	return promo, promo.CalculateDiscount(subtotal), nil
}
