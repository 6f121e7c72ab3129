package trade

import (
	"fmt"
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDetail is one order line. UnitPrice is the book price captured when the
// order was placed and never changes afterwards.
type OrderDetail struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	BookID    uuid.UUID
	BookTitle string
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal returns Quantity * UnitPrice
func (d *OrderDetail) LineTotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// OrderShippingAddress is an immutable copy of the address chosen at checkout
type OrderShippingAddress struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	RecipientName string
	Phone         string
	Street        string
	Village       string
	District      string
	City          string
}

// Order is the aggregate root for a customer purchase
type Order struct {
	shared.Root
	UserID          *uuid.UUID // customer; empty for anonymous counter sales
	StaffUserID     *uuid.UUID // staff member who rang up an in-store sale
	OrderDate       time.Time
	Status          OrderStatus
	OrderType       OrderType
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	PromotionID     *uuid.UUID
	PromotionCode   string
	ShippingAddress *OrderShippingAddress
	Details         []OrderDetail
	CompletedAt     *time.Time
	CancelledAt     *time.Time
}

// NewOnlineOrder starts a pending storefront order for userID
func NewOnlineOrder(userID uuid.UUID, method PaymentMethod) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("user ID cannot be empty")
	}
	return newOrder(OrderTypeOnline, &userID, nil, method)
}

// NewInStoreOrder starts a counter sale rung up by staffID. customerID is optional.
func NewInStoreOrder(staffID uuid.UUID, customerID *uuid.UUID, method PaymentMethod) (*Order, error) {
	if staffID == uuid.Nil {
		return nil, shared.NewValidationError("staff user ID cannot be empty")
	}
	return newOrder(OrderTypeInStore, customerID, &staffID, method)
}

func newOrder(orderType OrderType, userID, staffID *uuid.UUID, method PaymentMethod) (*Order, error) {
	if !method.IsValid() {
		return nil, shared.NewValidationError("invalid payment method %q", method)
	}
	o := &Order{
		Root:           shared.NewRoot(),
		UserID:         userID,
		StaffUserID:    staffID,
		Status:         OrderStatusPending,
		OrderType:      orderType,
		PaymentMethod:  method,
		PaymentStatus:  PaymentStatusPending,
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
	}
	o.OrderDate = o.CreatedAt
	return o, nil
}

// AddDetail appends a line priced at unitPrice. A book may appear only once.
func (o *Order) AddDetail(bookID uuid.UUID, title string, quantity int, unitPrice decimal.Decimal) error {
	if bookID == uuid.Nil {
		return shared.NewValidationError("book ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("unit price cannot be negative")
	}
	for _, d := range o.Details {
		if d.BookID == bookID {
			return shared.NewValidationError("book %s appears more than once in the order", bookID)
		}
	}

	o.Details = append(o.Details, OrderDetail{
		ID:        uuid.New(),
		OrderID:   o.ID,
		BookID:    bookID,
		BookTitle: title,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	o.recalculate()
	return nil
}

// SetShippingAddress attaches the address snapshot
func (o *Order) SetShippingAddress(addr OrderShippingAddress) {
	addr.ID = uuid.New()
	addr.OrderID = o.ID
	o.ShippingAddress = &addr
}

// ApplyDiscount records the promotion and the discount it granted
func (o *Order) ApplyDiscount(promotionID uuid.UUID, code string, discount decimal.Decimal) error {
	if discount.IsNegative() {
		return shared.NewValidationError("discount cannot be negative")
	}
	if discount.GreaterThan(o.Subtotal) {
		return shared.NewValidationError("discount %s exceeds subtotal %s", discount, o.Subtotal)
	}
	o.PromotionID = &promotionID
	o.PromotionCode = code
	o.DiscountAmount = discount
	o.recalculate()
	return nil
}

func (o *Order) recalculate() {
	subtotal := decimal.Zero
	for i := range o.Details {
		subtotal = subtotal.Add(o.Details[i].LineTotal())
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal.Sub(o.DiscountAmount)
}

// Place finalizes a newly assembled order and records the placement event
func (o *Order) Place() error {
	if len(o.Details) == 0 {
		return shared.NewValidationError("order has no lines")
	}
	if o.OrderType == OrderTypeOnline && o.ShippingAddress == nil {
		return shared.NewValidationError("online order requires a shipping address")
	}
	if o.OrderType == OrderTypeInStore {
		// Counter sales are paid and handed over on the spot.
		now := time.Now().UTC()
		o.Status = OrderStatusCompleted
		o.PaymentStatus = PaymentStatusPaid
		o.CompletedAt = &now
	}
	o.RecordEvent(NewOrderPlacedEvent(o))
	return nil
}

// TransitionTo moves the order to target, enforcing the transition table
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("invalid order status %q", target)
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("cannot change order status from %s to %s", o.Status, target))
	}

	from := o.Status
	now := time.Now().UTC()
	o.Status = target
	switch target {
	case OrderStatusCompleted:
		o.CompletedAt = &now
		o.PaymentStatus = PaymentStatusPaid
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}
	o.BumpVersion()
	o.Touch()
	o.RecordEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// IsOwnedBy reports whether userID is the order's customer
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID != nil && *o.UserID == userID
}

// TotalQuantity returns the number of units across all lines
func (o *Order) TotalQuantity() int {
	total := 0
	for _, d := range o.Details {
		total += d.Quantity
	}
	return total
}
