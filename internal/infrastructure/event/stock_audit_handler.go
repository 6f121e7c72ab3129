package event

import (
	"context"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// DefaultLowStockThreshold is the balance at or below which a warning is logged
const DefaultLowStockThreshold = 5

// StockAuditHandler writes committed stock and order events to the
// application log and warns when a sale leaves a book nearly sold out.
type StockAuditHandler struct {
	logger            *zap.Logger
	lowStockThreshold int
}

// NewStockAuditHandler creates the handler. A non-positive threshold disables
// low-stock warnings.
func NewStockAuditHandler(logger *zap.Logger, lowStockThreshold int) *StockAuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockAuditHandler{
		logger:            logger.Named("audit"),
		lowStockThreshold: lowStockThreshold,
	}
}

// EventTypes implements shared.EventHandler
func (h *StockAuditHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockChanged,
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
	}
}

// Handle implements shared.EventHandler
func (h *StockAuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockChangedEvent:
		h.logger.Info("stock changed",
			zap.String("book_id", e.BookID.String()),
			zap.String("log_id", e.LogID.String()),
			zap.String("reason", e.Reason.String()),
			zap.Int("change", e.Change),
			zap.Int("balance_after", e.BalanceAfter),
		)
		if h.lowStockThreshold > 0 && e.Change < 0 && e.BalanceAfter <= h.lowStockThreshold {
			h.logger.Warn("book stock is low",
				zap.String("book_id", e.BookID.String()),
				zap.Int("balance_after", e.BalanceAfter),
				zap.Int("threshold", h.lowStockThreshold),
			)
		}
	case *trade.OrderPlacedEvent:
		h.logger.Info("order placed",
			zap.String("order_id", e.OrderID.String()),
			zap.String("order_type", string(e.OrderType)),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
			zap.Int("item_count", e.ItemCount),
		)
	case *trade.OrderStatusChangedEvent:
		h.logger.Info("order status changed",
			zap.String("order_id", e.OrderID.String()),
			zap.String("from", e.From.String()),
			zap.String("to", e.To.String()),
		)
	default:
		h.logger.Debug("ignoring event", zap.String("event_type", event.EventType()))
	}
	return nil
}

var _ shared.EventHandler = (*StockAuditHandler)(nil)
