package catalog

import (
	"fmt"
	"strings"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	maxTitleLength  = 255
	maxAuthorLength = 200
)

// Book is a sellable catalog item. StockQuantity is the authoritative on-hand
// count and only changes through ApplyStockDelta.
type Book struct {
	shared.Root
	Title         string
	Author        string
	ISBN          string
	Price         decimal.Decimal
	StockQuantity int
	IsDeleted     bool
}

// NewBook creates a book with zero stock. Opening stock is recorded separately
// so that it appears in the inventory ledger.
func NewBook(title, author, isbn string, price decimal.Decimal) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewValidationError("book title cannot be empty")
	}
	if len(title) > maxTitleLength {
		return nil, shared.NewValidationError("book title cannot exceed %d characters", maxTitleLength)
	}
	if len(author) > maxAuthorLength {
		return nil, shared.NewValidationError("book author cannot exceed %d characters", maxAuthorLength)
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("book price cannot be negative")
	}

	book := &Book{
		Root:   shared.NewRoot(),
		Title:  title,
		Author: strings.TrimSpace(author),
		ISBN:   strings.TrimSpace(isbn),
		Price:  price,
	}
	book.RecordEvent(NewBookCreatedEvent(book))
	return book, nil
}

// IsSellable reports whether the book may appear on new orders
func (b *Book) IsSellable() bool {
	return !b.IsDeleted
}

// HasStock reports whether at least qty units are on hand
func (b *Book) HasStock(qty int) bool {
	return b.StockQuantity >= qty
}

// ApplyStockDelta adds delta to the on-hand count and returns the new value.
// A result below zero is rejected and leaves the book untouched.
func (b *Book) ApplyStockDelta(delta int) (int, error) {
	next := b.StockQuantity + delta
	if next < 0 {
		return b.StockQuantity, shared.NewDomainError(shared.CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for book %q: have %d, need %d", b.Title, b.StockQuantity, -delta))
	}
	b.StockQuantity = next
	b.BumpVersion()
	b.Touch()
	return next, nil
}

// ChangePrice sets the current selling price. Existing orders keep their snapshot.
func (b *Book) ChangePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("book price cannot be negative")
	}
	b.Price = price
	b.BumpVersion()
	b.Touch()
	return nil
}

// SoftDelete hides the book from sale while keeping its history
func (b *Book) SoftDelete() error {
	if b.IsDeleted {
		return shared.NewDomainError(shared.CodeInvalidState, "book is already deleted")
	}
	b.IsDeleted = true
	b.BumpVersion()
	b.Touch()
	b.RecordEvent(NewBookDeletedEvent(b))
	return nil
}
