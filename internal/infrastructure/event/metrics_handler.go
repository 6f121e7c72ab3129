package event

import (
	"context"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/bookstore/backend/internal/infrastructure/telemetry"
)

// MetricsHandler feeds committed domain events into business counters
type MetricsHandler struct {
	metrics *telemetry.BusinessMetrics
}

// NewMetricsHandler creates a MetricsHandler
func NewMetricsHandler(metrics *telemetry.BusinessMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// EventTypes implements shared.EventHandler
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockChanged,
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
	}
}

// Handle implements shared.EventHandler
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockChangedEvent:
		h.metrics.RecordStockMovement(ctx, e.Reason.String(), e.Change)
	case *trade.OrderPlacedEvent:
		h.metrics.RecordOrderPlaced(ctx, string(e.OrderType), e.TotalAmount, e.DiscountAmount, e.PromotionCode != "")
	case *trade.OrderStatusChangedEvent:
		h.metrics.RecordStatusChange(ctx, e.From.String(), e.To.String())
	}
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
