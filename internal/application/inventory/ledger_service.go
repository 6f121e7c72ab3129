package inventory

import (
	"context"
	"errors"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LedgerService answers read queries over the inventory ledger
type LedgerService struct {
	scope TransactionScope
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope TransactionScope) *LedgerService {
	return &LedgerService{scope: scope}
}

// ListByBook pages through a book's ledger, newest first
func (s *LedgerService) ListByBook(ctx context.Context, bookID uuid.UUID, page, pageSize int) (*shared.Paginated[InventoryLogResponse], error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	filter := shared.Filter{Page: page, PageSize: pageSize}

	var result shared.Paginated[InventoryLogResponse]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.BookRepo().FindByID(ctx, bookID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("book", bookID)
			}
			return err
		}
		logs, total, err := repos.InventoryLogRepo().FindByBook(ctx, bookID, filter)
		if err != nil {
			return err
		}
		items := make([]InventoryLogResponse, len(logs))
		for i := range logs {
			items[i] = ToInventoryLogResponse(&logs[i])
		}
		result = shared.NewPaginated(items, total, page, pageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Reconcile compares the book's stock counter with the sum of its ledger
func (s *LedgerService) Reconcile(ctx context.Context, bookID uuid.UUID) (*ReconciliationResponse, error) {
	var resp ReconciliationResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		book, err := repos.BookRepo().FindByID(ctx, bookID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("book", bookID)
			}
			return err
		}
		sum, err := repos.InventoryLogRepo().SumByBook(ctx, bookID)
		if err != nil {
			return err
		}
		resp = ReconciliationResponse{
			BookID:        bookID,
			StockQuantity: book.StockQuantity,
			LedgerSum:     sum,
			Consistent:    sum == book.StockQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
