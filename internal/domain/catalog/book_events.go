package catalog

import (
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeBook is the aggregate type name for books
const AggregateTypeBook = "Book"

// Event type constants
const (
	EventTypeBookCreated = "BookCreated"
	EventTypeBookDeleted = "BookDeleted"
)

// BookCreatedEvent is raised when a book is added to the catalog
type BookCreatedEvent struct {
	shared.EventMeta
	BookID uuid.UUID       `json:"book_id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
}

// NewBookCreatedEvent creates a new BookCreatedEvent
func NewBookCreatedEvent(b *Book) *BookCreatedEvent {
	return &BookCreatedEvent{
		EventMeta: shared.NewEventMeta(EventTypeBookCreated, AggregateTypeBook, b.ID),
		BookID:          b.ID,
		Title:           b.Title,
		Price:           b.Price,
	}
}

// BookDeletedEvent is raised when a book is soft-deleted
type BookDeletedEvent struct {
	shared.EventMeta
	BookID uuid.UUID `json:"book_id"`
}

// NewBookDeletedEvent creates a new BookDeletedEvent
func NewBookDeletedEvent(b *Book) *BookDeletedEvent {
	return &BookDeletedEvent{
		EventMeta: shared.NewEventMeta(EventTypeBookDeleted, AggregateTypeBook, b.ID),
		BookID:          b.ID,
	}
}
