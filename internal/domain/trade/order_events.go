package trade

import (
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type name for orders
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderPlacedEvent is raised when an order has been committed
type OrderPlacedEvent struct {
	shared.EventMeta
	OrderID        uuid.UUID       `json:"order_id"`
	OrderType      OrderType       `json:"order_type"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	PromotionCode  string          `json:"promotion_code,omitempty"`
	ItemCount      int             `json:"item_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		EventMeta: shared.NewEventMeta(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderType:       o.OrderType,
		TotalAmount:     o.TotalAmount,
		DiscountAmount:  o.DiscountAmount,
		PromotionCode:   o.PromotionCode,
		ItemCount:       o.TotalQuantity(),
	}
}

// OrderStatusChangedEvent is raised on every status transition
type OrderStatusChangedEvent struct {
	shared.EventMeta
	OrderID uuid.UUID   `json:"order_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		EventMeta: shared.NewEventMeta(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		From:            from,
		To:              o.Status,
	}
}
