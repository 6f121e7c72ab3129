package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockReceiptService posts supplier deliveries into stock
type StockReceiptService struct {
	scope          TransactionScope
	mutator        *StockMutator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockReceiptService creates a new StockReceiptService
func NewStockReceiptService(scope TransactionScope, mutator *StockMutator, logger *zap.Logger) *StockReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockReceiptService{
		scope:   scope,
		mutator: mutator,
		logger:  logger,
	}
}

// SetEventPublisher sets the publisher notified after a receipt commits
func (s *StockReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateStockReceipt records the receipt and raises stock for every line.
// Either every line is applied or none is.
func (s *StockReceiptService) CreateStockReceipt(ctx context.Context, userID uuid.UUID, req CreateStockReceiptRequest) (*StockReceiptResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewValidationError("stock receipt must have at least one line")
	}

	var actor *uuid.UUID
	if userID != uuid.Nil {
		actor = &userID
	}

	receipt := inventory.NewStockReceipt(req.SupplierID, actor, req.Notes)
	for _, line := range req.Lines {
		if _, err := receipt.AddDetail(line.BookID, line.QuantityReceived, line.PurchasePrice); err != nil {
			return nil, err
		}
	}
	if err := receipt.Validate(); err != nil {
		return nil, err
	}

	var logs []*inventory.InventoryLog
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		logs = logs[:0]

		if req.SupplierID != nil {
			supplier, err := repos.SupplierRepo().FindByID(ctx, *req.SupplierID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewNotFoundError("supplier", *req.SupplierID)
				}
				return fmt.Errorf("load supplier: %w", err)
			}
			if !supplier.IsActive() {
				return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("supplier %s is inactive", supplier.Name))
			}
		}

		// Receipts may only target live books, even though the mutator
		// itself rejects deleted ones as well.
		for _, d := range receipt.Details {
			book, err := repos.BookRepo().FindByID(ctx, d.BookID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewNotFoundError("book", d.BookID)
				}
				return fmt.Errorf("load book: %w", err)
			}
			if book.IsDeleted {
				return shared.NewNotFoundError("book", d.BookID)
			}
		}

		if err := repos.StockReceiptRepo().Save(ctx, receipt); err != nil {
			return fmt.Errorf("save stock receipt: %w", err)
		}

		for _, d := range receipt.Details {
			entry, err := s.mutator.ApplyStockChange(ctx, repos, StockChange{
				BookID:         d.BookID,
				Delta:          d.QuantityReceived,
				Reason:         inventory.ReasonStockReceipt,
				StockReceiptID: &receipt.ID,
				UserID:         actor,
			})
			if err != nil {
				return err
			}
			logs = append(logs, entry)
		}
		return nil
	})
	if err != nil {
		if !IsDomainError(err) {
			s.logger.Error("stock receipt failed",
				zap.String("stock_receipt_id", receipt.ID.String()),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	PublishCommitted(ctx, s.eventPublisher, s.logger, StockEvents(logs))

	resp := ToStockReceiptResponse(receipt)
	return &resp, nil
}
