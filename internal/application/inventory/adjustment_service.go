package inventory

import (
	"context"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdjustmentService applies operator stock corrections
type AdjustmentService struct {
	scope          TransactionScope
	mutator        *StockMutator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(scope TransactionScope, mutator *StockMutator, logger *zap.Logger) *AdjustmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdjustmentService{
		scope:   scope,
		mutator: mutator,
		logger:  logger,
	}
}

// SetEventPublisher sets the publisher notified after an adjustment commits
func (s *AdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AdjustStockManually changes a book's stock by req.ChangeQuantity. Only the
// ADJUSTMENT reason is accepted here; sales, receipts and cancellations have
// their own entry points.
func (s *AdjustmentService) AdjustStockManually(ctx context.Context, userID uuid.UUID, req AdjustStockRequest) (*InventoryLogResponse, error) {
	if req.Reason != inventory.ReasonAdjustment {
		return nil, shared.NewValidationError("manual adjustments must use reason %s, got %q", inventory.ReasonAdjustment, req.Reason)
	}
	if req.ChangeQuantity == 0 {
		return nil, shared.NewValidationError("adjustment change cannot be zero")
	}

	change := StockChange{
		BookID: req.BookID,
		Delta:  req.ChangeQuantity,
		Reason: inventory.ReasonAdjustment,
		Notes:  req.Notes,
	}
	if userID != uuid.Nil {
		change.UserID = &userID
	}

	var entry *inventory.InventoryLog
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		entry, err = s.mutator.ApplyStockChange(ctx, repos, change)
		return err
	})
	if err != nil {
		if !IsDomainError(err) {
			s.logger.Error("stock adjustment failed",
				zap.String("book_id", req.BookID.String()),
				zap.String("user_id", userID.String()),
				zap.Int("change", req.ChangeQuantity),
				zap.Error(err),
			)
		}
		return nil, err
	}

	PublishCommitted(ctx, s.eventPublisher, s.logger, StockEvents([]*inventory.InventoryLog{entry}))

	resp := ToInventoryLogResponse(entry)
	return &resp, nil
}
