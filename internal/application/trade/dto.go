package trade

import (
	"time"

	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOnlineOrderRequest checks out the acting user's cart
type CreateOnlineOrderRequest struct {
	ShippingAddressID uuid.UUID           `json:"shipping_address_id" binding:"required"`
	PaymentMethod     trade.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=COD CASH CARD BANK_TRANSFER E_WALLET"`
	PromotionCode     *string             `json:"promotion_code" binding:"omitempty,max=50"`
	// IdempotencyKey is taken from the Idempotency-Key header, never the body
	IdempotencyKey string `json:"-"`
}

// InStoreLineInput is one counter-sale line
type InStoreLineInput struct {
	BookID   uuid.UUID `json:"book_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,gt=0"`
}

// CreateInStoreOrderRequest rings up a counter sale
type CreateInStoreOrderRequest struct {
	Lines          []InStoreLineInput  `json:"lines" binding:"required,min=1,dive"`
	PaymentMethod  trade.PaymentMethod `json:"payment_method" binding:"required,oneof=CASH CARD BANK_TRANSFER E_WALLET"`
	CustomerUserID *uuid.UUID          `json:"customer_user_id"`
	PromotionCode  *string             `json:"promotion_code" binding:"omitempty,max=50"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle
type UpdateOrderStatusRequest struct {
	Status trade.OrderStatus `json:"status" binding:"required,oneof=CONFIRMED SHIPPING COMPLETED CANCELLED"`
}

// OrderDetailResponse is one order line
type OrderDetailResponse struct {
	ID        uuid.UUID       `json:"id"`
	BookID    uuid.UUID       `json:"book_id"`
	BookTitle string          `json:"book_title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ShippingAddressResponse is the address snapshot
type ShippingAddressResponse struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	Village       string `json:"village,omitempty"`
	District      string `json:"district,omitempty"`
	City          string `json:"city"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID              uuid.UUID                `json:"id"`
	UserID          *uuid.UUID               `json:"user_id,omitempty"`
	StaffUserID     *uuid.UUID               `json:"staff_user_id,omitempty"`
	OrderDate       time.Time                `json:"order_date"`
	Status          string                   `json:"status"`
	OrderType       string                   `json:"order_type"`
	PaymentMethod   string                   `json:"payment_method"`
	PaymentStatus   string                   `json:"payment_status"`
	Subtotal        decimal.Decimal          `json:"subtotal"`
	DiscountAmount  decimal.Decimal          `json:"discount_amount"`
	TotalAmount     decimal.Decimal          `json:"total_amount"`
	PromotionCode   string                   `json:"promotion_code,omitempty"`
	ShippingAddress *ShippingAddressResponse `json:"shipping_address,omitempty"`
	Details         []OrderDetailResponse    `json:"details"`
	CompletedAt     *time.Time               `json:"completed_at,omitempty"`
	CancelledAt     *time.Time               `json:"cancelled_at,omitempty"`
}

// ToOrderResponse converts an order to its response DTO
func ToOrderResponse(o *trade.Order) OrderResponse {
	details := make([]OrderDetailResponse, len(o.Details))
	for i := range o.Details {
		d := &o.Details[i]
		details[i] = OrderDetailResponse{
			ID:        d.ID,
			BookID:    d.BookID,
			BookTitle: d.BookTitle,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			LineTotal: d.LineTotal(),
		}
	}

	resp := OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		StaffUserID:    o.StaffUserID,
		OrderDate:      o.OrderDate,
		Status:         o.Status.String(),
		OrderType:      string(o.OrderType),
		PaymentMethod:  string(o.PaymentMethod),
		PaymentStatus:  string(o.PaymentStatus),
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		PromotionCode:  o.PromotionCode,
		Details:        details,
		CompletedAt:    o.CompletedAt,
		CancelledAt:    o.CancelledAt,
	}
	if a := o.ShippingAddress; a != nil {
		resp.ShippingAddress = &ShippingAddressResponse{
			RecipientName: a.RecipientName,
			Phone:         a.Phone,
			Street:        a.Street,
			Village:       a.Village,
			District:      a.District,
			City:          a.City,
		}
	}
	return resp
}
