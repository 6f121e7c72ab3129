package catalog

import (
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBookRequest adds a title to the catalog
type CreateBookRequest struct {
	Title        string          `json:"title" binding:"required,min=1,max=255"`
	Author       string          `json:"author" binding:"max=200"`
	ISBN         string          `json:"isbn" binding:"omitempty,max=20"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	InitialStock int             `json:"initial_stock" binding:"min=0"`
}

// UpdateBookPriceRequest changes the list price of a book
type UpdateBookPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// BookResponse is the API view of a book
type BookResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	IsDeleted     bool            `json:"is_deleted"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToBookResponse converts a domain Book to BookResponse
func ToBookResponse(b *catalog.Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		Price:         b.Price,
		StockQuantity: b.StockQuantity,
		IsDeleted:     b.IsDeleted,
		Version:       b.Version,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
