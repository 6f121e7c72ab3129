package models

import (
	"time"

	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/shopspring/decimal"
)

// PromotionModel is the persistence model for the Promotion aggregate.
type PromotionModel struct {
	VersionedRow
	Code               string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description        string           `gorm:"type:text"`
	DiscountPercentage *decimal.Decimal `gorm:"type:decimal(5,2)"`
	DiscountAmount     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	StartDate          time.Time        `gorm:"not null"`
	EndDate            *time.Time
	MaxUsage           *int
	CurrentUsage       int  `gorm:"not null;default:0"`
	IsActive           bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PromotionModel) TableName() string {
	return "promotions"
}

// ToDomain converts the persistence model to a domain Promotion.
func (m *PromotionModel) ToDomain() *promotion.Promotion {
	return &promotion.Promotion{
		Root:               m.root(),
		Code:               m.Code,
		Description:        m.Description,
		DiscountPercentage: m.DiscountPercentage,
		DiscountAmount:     m.DiscountAmount,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		MaxUsage:           m.MaxUsage,
		CurrentUsage:       m.CurrentUsage,
		IsActive:           m.IsActive,
	}
}

// PromotionModelFromDomain creates a new persistence model from a domain Promotion.
func PromotionModelFromDomain(p *promotion.Promotion) *PromotionModel {
	m := &PromotionModel{
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
	m.VersionedRow = versionedRowOf(p.Root)
	return m
}
