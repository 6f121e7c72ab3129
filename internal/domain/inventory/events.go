package inventory

import (
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeStock is the aggregate type used for stock movement events
const AggregateTypeStock = "Stock"

// EventTypeStockChanged is raised once per ledger row after commit
const EventTypeStockChanged = "StockChanged"

// StockChangedEvent mirrors an appended ledger row
type StockChangedEvent struct {
	shared.EventMeta
	LogID        uuid.UUID `json:"log_id"`
	BookID       uuid.UUID `json:"book_id"`
	Change       int       `json:"change"`
	BalanceAfter int       `json:"balance_after"`
	Reason       Reason    `json:"reason"`
}

// NewStockChangedEvent creates the event for a ledger row
func NewStockChangedEvent(l *InventoryLog) *StockChangedEvent {
	return &StockChangedEvent{
		EventMeta: shared.NewEventMeta(EventTypeStockChanged, AggregateTypeStock, l.BookID),
		LogID:           l.ID,
		BookID:          l.BookID,
		Change:          l.ChangeQuantity,
		BalanceAfter:    l.BalanceAfter,
		Reason:          l.Reason,
	}
}
