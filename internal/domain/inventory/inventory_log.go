package inventory

import (
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Reason classifies why a book's stock changed
type Reason string

const (
	// ReasonInitialStock is the opening quantity of a newly registered book
	ReasonInitialStock Reason = "INITIAL_STOCK"
	// ReasonStockReceipt is goods received from a supplier
	ReasonStockReceipt Reason = "STOCK_RECEIPT"
	// ReasonOnlineSale is stock leaving through a storefront order
	ReasonOnlineSale Reason = "ONLINE_SALE"
	// ReasonInStoreSale is stock leaving through a counter sale
	ReasonInStoreSale Reason = "IN_STORE_SALE"
	// ReasonOrderCancellation is stock returned when an order is cancelled
	ReasonOrderCancellation Reason = "ORDER_CANCELLATION"
	// ReasonAdjustment is an operator correction
	ReasonAdjustment Reason = "ADJUSTMENT"
)

// String returns the string representation of Reason
func (r Reason) String() string {
	return string(r)
}

// IsValid returns true if the reason is known
func (r Reason) IsValid() bool {
	switch r {
	case ReasonInitialStock,
		ReasonStockReceipt,
		ReasonOnlineSale,
		ReasonInStoreSale,
		ReasonOrderCancellation,
		ReasonAdjustment:
		return true
	}
	return false
}

// IsSale returns true for reasons that take stock out through an order
func (r Reason) IsSale() bool {
	return r == ReasonOnlineSale || r == ReasonInStoreSale
}

// AllowsDelta reports whether a change of the given sign fits the reason.
// Sales only decrease stock, receipts, openings and cancellations only
// increase it, adjustments go either way.
func (r Reason) AllowsDelta(delta int) bool {
	if delta == 0 {
		return false
	}
	switch r {
	case ReasonOnlineSale, ReasonInStoreSale:
		return delta < 0
	case ReasonInitialStock, ReasonStockReceipt, ReasonOrderCancellation:
		return delta > 0
	case ReasonAdjustment:
		return true
	}
	return false
}

// InventoryLog is an immutable record of one stock movement. Rows are only
// ever appended; corrections are new rows with reason ADJUSTMENT.
type InventoryLog struct {
	ID             uuid.UUID
	BookID         uuid.UUID
	ChangeQuantity int
	BalanceBefore  int
	BalanceAfter   int
	Reason         Reason
	TimestampUTC   time.Time
	OrderID        *uuid.UUID
	StockReceiptID *uuid.UUID
	UserID         *uuid.UUID
	Notes          string
}

// NewInventoryLog creates a ledger row for a change applied on top of balanceBefore
func NewInventoryLog(bookID uuid.UUID, change, balanceBefore int, reason Reason) (*InventoryLog, error) {
	if bookID == uuid.Nil {
		return nil, shared.NewValidationError("book ID cannot be empty")
	}
	if !reason.IsValid() {
		return nil, shared.NewValidationError("invalid inventory reason %q", reason)
	}
	if !reason.AllowsDelta(change) {
		return nil, shared.NewValidationError("change of %d is not allowed for reason %s", change, reason)
	}
	if balanceBefore+change < 0 {
		return nil, shared.NewDomainError(shared.CodeInsufficientStock, "ledger balance cannot go negative")
	}

	return &InventoryLog{
		ID:             uuid.New(),
		BookID:         bookID,
		ChangeQuantity: change,
		BalanceBefore:  balanceBefore,
		BalanceAfter:   balanceBefore + change,
		Reason:         reason,
		TimestampUTC:   time.Now().UTC(),
	}, nil
}

// WithOrderID links the row to an order
func (l *InventoryLog) WithOrderID(orderID uuid.UUID) *InventoryLog {
	l.OrderID = &orderID
	return l
}

// WithStockReceiptID links the row to a stock receipt
func (l *InventoryLog) WithStockReceiptID(receiptID uuid.UUID) *InventoryLog {
	l.StockReceiptID = &receiptID
	return l
}

// WithUserID records the acting user
func (l *InventoryLog) WithUserID(userID uuid.UUID) *InventoryLog {
	l.UserID = &userID
	return l
}

// WithNotes attaches free-text notes
func (l *InventoryLog) WithNotes(notes string) *InventoryLog {
	l.Notes = notes
	return l
}

// IsIncrease returns true if the row added stock
func (l *InventoryLog) IsIncrease() bool {
	return l.ChangeQuantity > 0
}
