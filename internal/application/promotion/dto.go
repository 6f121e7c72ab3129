package promotion

import (
	"time"

	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidatePromotionRequest asks what a code is worth on a subtotal
type ValidatePromotionRequest struct {
	Code     string          `json:"code" binding:"required,max=50"`
	Subtotal decimal.Decimal `json:"subtotal" binding:"required"`
}

// DiscountResponse is the outcome of a successful validation
type DiscountResponse struct {
	Code           string          `json:"code"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// CreatePromotionRequest defines a new promotion
type CreatePromotionRequest struct {
	Code               string           `json:"code" binding:"required,max=50"`
	Description        string           `json:"description" binding:"max=500"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount"`
	StartDate          time.Time        `json:"start_date" binding:"required"`
	EndDate            *time.Time       `json:"end_date"`
	MaxUsage           *int             `json:"max_usage" binding:"omitempty,gt=0"`
}

// PromotionResponse is the API view of a promotion
type PromotionResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Code               string           `json:"code"`
	Description        string           `json:"description,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount,omitempty"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            *time.Time       `json:"end_date,omitempty"`
	MaxUsage           *int             `json:"max_usage,omitempty"`
	CurrentUsage       int              `json:"current_usage"`
	IsActive           bool             `json:"is_active"`
}

// ToPromotionResponse converts a promotion to its response DTO
func ToPromotionResponse(p *promotion.Promotion) PromotionResponse {
	return PromotionResponse{
		ID:                 p.ID,
		Code:               p.Code,
		Description:        p.Description,
		DiscountPercentage: p.DiscountPercentage,
		DiscountAmount:     p.DiscountAmount,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		MaxUsage:           p.MaxUsage,
		CurrentUsage:       p.CurrentUsage,
		IsActive:           p.IsActive,
	}
}
