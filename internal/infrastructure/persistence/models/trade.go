package models

import (
	"time"

	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	VersionedRow
	UserID          *uuid.UUID                 `gorm:"type:uuid;index"`
	StaffUserID     *uuid.UUID                 `gorm:"type:uuid;index"`
	OrderDate       time.Time                  `gorm:"not null;index"`
	Status          trade.OrderStatus          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	OrderType       trade.OrderType            `gorm:"type:varchar(20);not null"`
	PaymentMethod   trade.PaymentMethod        `gorm:"type:varchar(20);not null"`
	PaymentStatus   trade.PaymentStatus        `gorm:"type:varchar(20);not null"`
	Subtotal        decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	DiscountAmount  decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount     decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	PromotionID     *uuid.UUID                 `gorm:"type:uuid;index"`
	PromotionCode   string                     `gorm:"type:varchar(50)"`
	Details         []OrderDetailModel         `gorm:"foreignKey:OrderID;references:ID"`
	ShippingAddress *OrderShippingAddressModel `gorm:"foreignKey:OrderID;references:ID"`
	CompletedAt     *time.Time
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderDetailModel is the persistence model for one order line.
type OrderDetailModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	BookID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BookTitle string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderDetailModel) TableName() string {
	return "order_details"
}

// OrderShippingAddressModel stores the address snapshot taken at checkout.
type OrderShippingAddressModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	RecipientName string    `gorm:"type:varchar(100);not null"`
	Phone         string    `gorm:"type:varchar(50)"`
	Street        string    `gorm:"type:varchar(255);not null"`
	Village       string    `gorm:"type:varchar(100)"`
	District      string    `gorm:"type:varchar(100)"`
	City          string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (OrderShippingAddressModel) TableName() string {
	return "order_shipping_addresses"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		Root:           m.root(),
		UserID:         m.UserID,
		StaffUserID:    m.StaffUserID,
		OrderDate:      m.OrderDate,
		Status:         m.Status,
		OrderType:      m.OrderType,
		PaymentMethod:  m.PaymentMethod,
		PaymentStatus:  m.PaymentStatus,
		Subtotal:       m.Subtotal,
		DiscountAmount: m.DiscountAmount,
		TotalAmount:    m.TotalAmount,
		PromotionID:    m.PromotionID,
		PromotionCode:  m.PromotionCode,
		CompletedAt:    m.CompletedAt,
		CancelledAt:    m.CancelledAt,
		Details:        make([]trade.OrderDetail, len(m.Details)),
	}
	for i, d := range m.Details {
		o.Details[i] = trade.OrderDetail{
			ID:        d.ID,
			OrderID:   d.OrderID,
			BookID:    d.BookID,
			BookTitle: d.BookTitle,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
		}
	}
	if a := m.ShippingAddress; a != nil {
		o.ShippingAddress = &trade.OrderShippingAddress{
			ID:            a.ID,
			OrderID:       a.OrderID,
			RecipientName: a.RecipientName,
			Phone:         a.Phone,
			Street:        a.Street,
			Village:       a.Village,
			District:      a.District,
			City:          a.City,
		}
	}
	return o
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		UserID:         o.UserID,
		StaffUserID:    o.StaffUserID,
		OrderDate:      o.OrderDate,
		Status:         o.Status,
		OrderType:      o.OrderType,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		PromotionID:    o.PromotionID,
		PromotionCode:  o.PromotionCode,
		CompletedAt:    o.CompletedAt,
		CancelledAt:    o.CancelledAt,
		Details:        make([]OrderDetailModel, len(o.Details)),
	}
	m.VersionedRow = versionedRowOf(o.Root)
	for i, d := range o.Details {
		m.Details[i] = OrderDetailModel{
			ID:        d.ID,
			OrderID:   o.ID,
			BookID:    d.BookID,
			BookTitle: d.BookTitle,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
		}
	}
	if a := o.ShippingAddress; a != nil {
		m.ShippingAddress = &OrderShippingAddressModel{
			ID:            a.ID,
			OrderID:       o.ID,
			RecipientName: a.RecipientName,
			Phone:         a.Phone,
			Street:        a.Street,
			Village:       a.Village,
			District:      a.District,
			City:          a.City,
		}
	}
	return m
}

// CartItemModel is one line of a user's cart, keyed by (user_id, book_id).
type CartItemModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem.
func (m *CartItemModel) ToDomain() trade.CartItem {
	return trade.CartItem{
		UserID:    m.UserID,
		BookID:    m.BookID,
		Quantity:  m.Quantity,
		UpdatedAt: m.UpdatedAt,
	}
}

// AddressModel is a user's saved delivery address.
type AddressModel struct {
	Row
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	RecipientName string    `gorm:"type:varchar(100);not null"`
	Phone         string    `gorm:"type:varchar(50)"`
	Street        string    `gorm:"type:varchar(255);not null"`
	Village       string    `gorm:"type:varchar(100)"`
	District      string    `gorm:"type:varchar(100)"`
	City          string    `gorm:"type:varchar(100);not null"`
	IsDefault     bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address.
func (m *AddressModel) ToDomain() *trade.Address {
	return &trade.Address{
		Identity:      m.identity(),
		UserID:        m.UserID,
		RecipientName: m.RecipientName,
		Phone:         m.Phone,
		Street:        m.Street,
		Village:       m.Village,
		District:      m.District,
		City:          m.City,
		IsDefault:     m.IsDefault,
	}
}

// AddressModelFromDomain creates a new persistence model from a domain Address.
func AddressModelFromDomain(a *trade.Address) *AddressModel {
	m := &AddressModel{
		UserID:        a.UserID,
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Street:        a.Street,
		Village:       a.Village,
		District:      a.District,
		City:          a.City,
		IsDefault:     a.IsDefault,
	}
	m.Row = rowOf(a.Identity)
	return m
}

// AllModels lists every model in dependency order, for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&BookModel{},
		&SupplierModel{},
		&PromotionModel{},
		&StockReceiptModel{},
		&StockReceiptDetailModel{},
		&OrderModel{},
		&OrderDetailModel{},
		&OrderShippingAddressModel{},
		&InventoryLogModel{},
		&CartItemModel{},
		&AddressModel{},
	}
}
