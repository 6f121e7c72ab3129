package models

import (
	"time"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryLogModel is the persistence model for a ledger row. Rows are only
// ever inserted.
type InventoryLogModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key"`
	BookID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_inventory_log_book_time,priority:1"`
	ChangeQuantity int              `gorm:"not null"`
	BalanceBefore  int              `gorm:"not null"`
	BalanceAfter   int              `gorm:"not null"`
	Reason         inventory.Reason `gorm:"type:varchar(30);not null;index"`
	TimestampUTC   time.Time        `gorm:"column:timestamp_utc;not null;index:idx_inventory_log_book_time,priority:2"`
	OrderID        *uuid.UUID       `gorm:"type:uuid;index"`
	StockReceiptID *uuid.UUID       `gorm:"type:uuid;index"`
	UserID         *uuid.UUID       `gorm:"type:uuid"`
	Notes          string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InventoryLogModel) TableName() string {
	return "inventory_logs"
}

// ToDomain converts the persistence model to a domain InventoryLog.
func (m *InventoryLogModel) ToDomain() *inventory.InventoryLog {
	return &inventory.InventoryLog{
		ID:             m.ID,
		BookID:         m.BookID,
		ChangeQuantity: m.ChangeQuantity,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		Reason:         m.Reason,
		TimestampUTC:   m.TimestampUTC,
		OrderID:        m.OrderID,
		StockReceiptID: m.StockReceiptID,
		UserID:         m.UserID,
		Notes:          m.Notes,
	}
}

// InventoryLogModelFromDomain creates a new persistence model from a domain InventoryLog.
func InventoryLogModelFromDomain(l *inventory.InventoryLog) *InventoryLogModel {
	return &InventoryLogModel{
		ID:             l.ID,
		BookID:         l.BookID,
		ChangeQuantity: l.ChangeQuantity,
		BalanceBefore:  l.BalanceBefore,
		BalanceAfter:   l.BalanceAfter,
		Reason:         l.Reason,
		TimestampUTC:   l.TimestampUTC,
		OrderID:        l.OrderID,
		StockReceiptID: l.StockReceiptID,
		UserID:         l.UserID,
		Notes:          l.Notes,
	}
}

// StockReceiptModel is the persistence model for the StockReceipt aggregate.
type StockReceiptModel struct {
	VersionedRow
	SupplierID  *uuid.UUID                `gorm:"type:uuid;index"`
	UserID      *uuid.UUID                `gorm:"type:uuid"`
	ReceiptDate time.Time                 `gorm:"not null;index"`
	Notes       string                    `gorm:"type:text"`
	Details     []StockReceiptDetailModel `gorm:"foreignKey:StockReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (StockReceiptModel) TableName() string {
	return "stock_receipts"
}

// StockReceiptDetailModel is one received line.
type StockReceiptDetailModel struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key"`
	StockReceiptID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	BookID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	QuantityReceived int              `gorm:"not null"`
	PurchasePrice    *decimal.Decimal `gorm:"type:decimal(18,2)"`
}

// TableName returns the table name for GORM
func (StockReceiptDetailModel) TableName() string {
	return "stock_receipt_details"
}

// ToDomain converts the persistence model to a domain StockReceipt.
func (m *StockReceiptModel) ToDomain() *inventory.StockReceipt {
	r := &inventory.StockReceipt{
		Root:        m.root(),
		SupplierID:  m.SupplierID,
		UserID:      m.UserID,
		ReceiptDate: m.ReceiptDate,
		Notes:       m.Notes,
		Details:     make([]inventory.StockReceiptDetail, len(m.Details)),
	}
	for i, d := range m.Details {
		r.Details[i] = inventory.StockReceiptDetail{
			ID:               d.ID,
			StockReceiptID:   d.StockReceiptID,
			BookID:           d.BookID,
			QuantityReceived: d.QuantityReceived,
			PurchasePrice:    d.PurchasePrice,
		}
	}
	return r
}

// StockReceiptModelFromDomain creates a new persistence model from a domain StockReceipt.
func StockReceiptModelFromDomain(r *inventory.StockReceipt) *StockReceiptModel {
	m := &StockReceiptModel{
		SupplierID:  r.SupplierID,
		UserID:      r.UserID,
		ReceiptDate: r.ReceiptDate,
		Notes:       r.Notes,
		Details:     make([]StockReceiptDetailModel, len(r.Details)),
	}
	m.VersionedRow = versionedRowOf(r.Root)
	for i, d := range r.Details {
		m.Details[i] = StockReceiptDetailModel{
			ID:               d.ID,
			StockReceiptID:   r.ID,
			BookID:           d.BookID,
			QuantityReceived: d.QuantityReceived,
			PurchasePrice:    d.PurchasePrice,
		}
	}
	return m
}
