package inventory

import (
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockReceipt documents a batch of goods received, optionally from a supplier
type StockReceipt struct {
	shared.Root
	SupplierID  *uuid.UUID
	UserID      *uuid.UUID
	ReceiptDate time.Time
	Notes       string
	Details     []StockReceiptDetail
}

// StockReceiptDetail is one received line
type StockReceiptDetail struct {
	ID               uuid.UUID
	StockReceiptID   uuid.UUID
	BookID           uuid.UUID
	QuantityReceived int
	PurchasePrice    *decimal.Decimal
}

// NewStockReceipt creates an empty receipt dated now
func NewStockReceipt(supplierID, userID *uuid.UUID, notes string) *StockReceipt {
	r := &StockReceipt{
		Root:       shared.NewRoot(),
		SupplierID: supplierID,
		UserID:     userID,
		Notes:      notes,
	}
	r.ReceiptDate = r.CreatedAt
	return r
}

// AddDetail appends a received line
func (r *StockReceipt) AddDetail(bookID uuid.UUID, quantity int, purchasePrice *decimal.Decimal) (*StockReceiptDetail, error) {
	if bookID == uuid.Nil {
		return nil, shared.NewValidationError("book ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("quantity received must be positive")
	}
	if purchasePrice != nil && purchasePrice.IsNegative() {
		return nil, shared.NewValidationError("purchase price cannot be negative")
	}

	r.Details = append(r.Details, StockReceiptDetail{
		ID:               uuid.New(),
		StockReceiptID:   r.ID,
		BookID:           bookID,
		QuantityReceived: quantity,
		PurchasePrice:    purchasePrice,
	})
	return &r.Details[len(r.Details)-1], nil
}

// Validate checks the receipt can be posted
func (r *StockReceipt) Validate() error {
	if len(r.Details) == 0 {
		return shared.NewValidationError("stock receipt must have at least one line")
	}
	return nil
}

// TotalQuantity returns the number of units received across all lines
func (r *StockReceipt) TotalQuantity() int {
	total := 0
	for _, d := range r.Details {
		total += d.QuantityReceived
	}
	return total
}

// TotalCost sums quantity times purchase price over lines that carry a price
func (r *StockReceipt) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.Details {
		if d.PurchasePrice != nil {
			total = total.Add(d.PurchasePrice.Mul(decimal.NewFromInt(int64(d.QuantityReceived))))
		}
	}
	return total
}
