package promotion

import (
	"context"
	"errors"

	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service manages promotions outside of order placement
type Service struct {
	repo      promotion.PromotionRepository
	validator *Validator
}

// NewService creates a new promotion Service
func NewService(repo promotion.PromotionRepository, validator *Validator) *Service {
	if validator == nil {
		validator = NewValidator()
	}
	return &Service{repo: repo, validator: validator}
}

// ValidateAndCalculateDiscount returns the discount code grants on subtotal.
// It does not consume a use.
func (s *Service) ValidateAndCalculateDiscount(ctx context.Context, code string, subtotal decimal.Decimal) (*DiscountResponse, error) {
	if subtotal.IsNegative() {
		return nil, shared.NewValidationError("subtotal cannot be negative")
	}
	promo, discount, err := s.validator.Evaluate(ctx, s.repo, code, subtotal)
	if err != nil {
		return nil, err
	}
	return &DiscountResponse{
		Code:           promo.Code,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal.Sub(discount),
	}, nil
}

// Create registers a new promotion. Codes are unique regardless of case.
func (s *Service) Create(ctx context.Context, req CreatePromotionRequest) (*PromotionResponse, error) {
	promo, err := promotion.NewPromotion(
		req.Code,
		req.Description,
		req.DiscountPercentage,
		req.DiscountAmount,
		req.StartDate,
		req.EndDate,
		req.MaxUsage,
	)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, promo.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "promotion code "+promo.Code+" already exists")
	}

	if err := s.repo.Save(ctx, promo); err != nil {
		return nil, err
	}
	resp := ToPromotionResponse(promo)
	return &resp, nil
}

// Deactivate switches a promotion off
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*PromotionResponse, error) {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("promotion", id)
		}
		return nil, err
	}
	if err := promo.Deactivate(); err != nil {
		return nil, err
	}
	// Only the flag is written. A full save would overwrite current_usage
	// with the value read above and lose uses consumed in the meantime.
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return nil, err
	}
	if promo, err = s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	resp := ToPromotionResponse(promo)
	return &resp, nil
}

// IncrementUsage consumes one use of the promotion. Order placement performs
// the same step through its own transaction-bound repository.
func (s *Service) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementUsage(ctx, id)
}
