package promotion

import (
	"strings"
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Promotion is a discount code redeemable on orders. Codes compare
// case-insensitively and are stored upper-cased.
type Promotion struct {
	shared.Root
	Code               string
	Description        string
	DiscountPercentage *decimal.Decimal
	DiscountAmount     *decimal.Decimal
	StartDate          time.Time
	EndDate            *time.Time
	MaxUsage           *int
	CurrentUsage       int
	IsActive           bool
}

// NormalizeCode returns the canonical form of a promotion code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewPromotion creates an active promotion. At most one of percentage and
// amount may be set; with neither the code grants no discount.
func NewPromotion(
	code, description string,
	percentage, amount *decimal.Decimal,
	startDate time.Time,
	endDate *time.Time,
	maxUsage *int,
) (*Promotion, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, shared.NewValidationError("promotion code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewValidationError("promotion code cannot exceed 50 characters")
	}
	if percentage != nil && amount != nil {
		return nil, shared.NewValidationError("promotion cannot have both a percentage and a fixed discount")
	}
	if percentage != nil && (!percentage.IsPositive() || percentage.GreaterThan(hundred)) {
		return nil, shared.NewValidationError("discount percentage must be in (0, 100]")
	}
	if amount != nil && !amount.IsPositive() {
		return nil, shared.NewValidationError("discount amount must be positive")
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, shared.NewValidationError("promotion end date is before its start date")
	}
	if maxUsage != nil && *maxUsage <= 0 {
		return nil, shared.NewValidationError("max usage must be positive")
	}

	return &Promotion{
		Root:               shared.NewRoot(),
		Code:               code,
		Description:        description,
		DiscountPercentage: percentage,
		DiscountAmount:     amount,
		StartDate:          startDate.UTC(),
		EndDate:            endDate,
		MaxUsage:           maxUsage,
		IsActive:           true,
	}, nil
}

// IsExhausted reports whether the usage cap has been reached
func (p *Promotion) IsExhausted() bool {
	return p.MaxUsage != nil && p.CurrentUsage >= *p.MaxUsage
}

// CheckRedeemable returns a validation error describing why the promotion
// cannot be used at now, or nil.
func (p *Promotion) CheckRedeemable(now time.Time) error {
	switch {
	case !p.IsActive:
		return shared.NewValidationError("promotion %s is not active", p.Code)
	case now.Before(p.StartDate):
		return shared.NewValidationError("promotion %s has not started yet", p.Code)
	case p.EndDate != nil && now.After(*p.EndDate):
		return shared.NewValidationError("promotion %s has expired", p.Code)
	case p.IsExhausted():
		return shared.NewValidationError("promotion %s has reached its usage limit", p.Code)
	}
	return nil
}

// CalculateDiscount returns the discount for subtotal, never more than subtotal
func (p *Promotion) CalculateDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}

	discount := decimal.Zero
	switch {
	case p.DiscountPercentage != nil:
		discount = subtotal.Mul(*p.DiscountPercentage).Div(hundred).Round(2)
	case p.DiscountAmount != nil:
		discount = *p.DiscountAmount
	}

	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// Redeem counts one use. The repository applies the same cap atomically.
func (p *Promotion) Redeem() error {
	if p.IsExhausted() {
		return shared.NewValidationError("promotion %s has reached its usage limit", p.Code)
	}
	p.CurrentUsage++
	p.Touch()
	return nil
}

// Deactivate switches the promotion off
func (p *Promotion) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError(shared.CodeInvalidState, "promotion is already inactive")
	}
	p.IsActive = false
	p.BumpVersion()
	p.Touch()
	return nil
}
