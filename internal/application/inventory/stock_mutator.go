package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockChange describes one requested movement of a book's stock
type StockChange struct {
	BookID         uuid.UUID
	Delta          int
	Reason         inventory.Reason
	OrderID        *uuid.UUID
	StockReceiptID *uuid.UUID
	UserID         *uuid.UUID
	Notes          string
}

// StockMutator is the only code path allowed to change Book.StockQuantity.
// It must run inside a TransactionScope so that the counter update and the
// ledger row commit or roll back together.
type StockMutator struct{}

// NewStockMutator creates a StockMutator
func NewStockMutator() *StockMutator {
	return &StockMutator{}
}

// ApplyStockChange locks the book row, applies the delta and appends exactly
// one ledger row. The returned row's BalanceAfter is the new stock quantity.
//
// Soft-deleted books are reported as not found, except that cancelled orders
// may still return their stock.
func (m *StockMutator) ApplyStockChange(ctx context.Context, repos TransactionalRepositories, change StockChange) (*inventory.InventoryLog, error) {
	if change.BookID == uuid.Nil {
		return nil, shared.NewValidationError("book ID cannot be empty")
	}
	if !change.Reason.IsValid() {
		return nil, shared.NewValidationError("invalid inventory reason %q", change.Reason)
	}
	if !change.Reason.AllowsDelta(change.Delta) {
		return nil, shared.NewValidationError("change of %d is not allowed for reason %s", change.Delta, change.Reason)
	}

	book, err := repos.BookRepo().FindByIDForUpdate(ctx, change.BookID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("book", change.BookID)
		}
		return nil, fmt.Errorf("lock book %s: %w", change.BookID, err)
	}
	if book.IsDeleted && change.Reason != inventory.ReasonOrderCancellation {
		return nil, shared.NewNotFoundError("book", change.BookID)
	}

	before := book.StockQuantity
	expectedVersion := book.Version
	if _, err := book.ApplyStockDelta(change.Delta); err != nil {
		return nil, err
	}
	if err := repos.BookRepo().SaveStock(ctx, book, expectedVersion); err != nil {
		return nil, err
	}

	entry, err := inventory.NewInventoryLog(book.ID, change.Delta, before, change.Reason)
	if err != nil {
		return nil, err
	}
	if change.OrderID != nil {
		entry.WithOrderID(*change.OrderID)
	}
	if change.StockReceiptID != nil {
		entry.WithStockReceiptID(*change.StockReceiptID)
	}
	if change.UserID != nil {
		entry.WithUserID(*change.UserID)
	}
	if change.Notes != "" {
		entry.WithNotes(change.Notes)
	}

	if err := repos.InventoryLogRepo().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("append inventory log for book %s: %w", change.BookID, err)
	}
	return entry, nil
}
