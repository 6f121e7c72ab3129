package inventory

import (
	"context"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryLogRepository is append-only: there is no update or delete
type InventoryLogRepository interface {
	// Create appends a ledger row
	Create(ctx context.Context, log *InventoryLog) error

	// FindByBook lists rows for a book, newest first
	FindByBook(ctx context.Context, bookID uuid.UUID, filter shared.Filter) ([]InventoryLog, int64, error)

	// FindByOrder lists rows tied to an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]InventoryLog, error)

	// SumByBook returns the sum of ChangeQuantity over all rows of a book
	SumByBook(ctx context.Context, bookID uuid.UUID) (int, error)
}

// StockReceiptRepository persists receipts with their lines
type StockReceiptRepository interface {
	Save(ctx context.Context, receipt *StockReceipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*StockReceipt, error)
}
