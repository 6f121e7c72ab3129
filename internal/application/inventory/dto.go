package inventory

import (
	"time"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockReceiptLineInput is one line of a goods-in request
type StockReceiptLineInput struct {
	BookID           uuid.UUID        `json:"book_id" binding:"required"`
	QuantityReceived int              `json:"quantity_received" binding:"required,gt=0"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price"`
}

// CreateStockReceiptRequest records goods received, optionally from a supplier
type CreateStockReceiptRequest struct {
	SupplierID *uuid.UUID              `json:"supplier_id"`
	Notes      string                  `json:"notes" binding:"max=1000"`
	Lines      []StockReceiptLineInput `json:"lines" binding:"required,min=1,dive"`
}

// AdjustStockRequest is an operator correction of a book's stock
type AdjustStockRequest struct {
	BookID         uuid.UUID        `json:"book_id" binding:"required"`
	ChangeQuantity int              `json:"change_quantity" binding:"required"`
	Reason         inventory.Reason `json:"reason" binding:"required"`
	Notes          string           `json:"notes" binding:"max=500"`
}

// StockReceiptDetailResponse is a received line
type StockReceiptDetailResponse struct {
	ID               uuid.UUID        `json:"id"`
	BookID           uuid.UUID        `json:"book_id"`
	QuantityReceived int              `json:"quantity_received"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price,omitempty"`
}

// StockReceiptResponse is the posted receipt
type StockReceiptResponse struct {
	ID            uuid.UUID                    `json:"id"`
	SupplierID    *uuid.UUID                   `json:"supplier_id,omitempty"`
	UserID        *uuid.UUID                   `json:"user_id,omitempty"`
	ReceiptDate   time.Time                    `json:"receipt_date"`
	Notes         string                       `json:"notes,omitempty"`
	TotalQuantity int                          `json:"total_quantity"`
	TotalCost     decimal.Decimal              `json:"total_cost"`
	Details       []StockReceiptDetailResponse `json:"details"`
}

// ToStockReceiptResponse converts a receipt to its response DTO
func ToStockReceiptResponse(r *inventory.StockReceipt) StockReceiptResponse {
	details := make([]StockReceiptDetailResponse, len(r.Details))
	for i, d := range r.Details {
		details[i] = StockReceiptDetailResponse{
			ID:               d.ID,
			BookID:           d.BookID,
			QuantityReceived: d.QuantityReceived,
			PurchasePrice:    d.PurchasePrice,
		}
	}
	return StockReceiptResponse{
		ID:            r.ID,
		SupplierID:    r.SupplierID,
		UserID:        r.UserID,
		ReceiptDate:   r.ReceiptDate,
		Notes:         r.Notes,
		TotalQuantity: r.TotalQuantity(),
		TotalCost:     r.TotalCost(),
		Details:       details,
	}
}

// InventoryLogResponse is one ledger row
type InventoryLogResponse struct {
	ID             uuid.UUID  `json:"id"`
	BookID         uuid.UUID  `json:"book_id"`
	ChangeQuantity int        `json:"change_quantity"`
	BalanceBefore  int        `json:"balance_before"`
	BalanceAfter   int        `json:"balance_after"`
	Reason         string     `json:"reason"`
	TimestampUTC   time.Time  `json:"timestamp_utc"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
	StockReceiptID *uuid.UUID `json:"stock_receipt_id,omitempty"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// ToInventoryLogResponse converts a ledger row to its response DTO
func ToInventoryLogResponse(l *inventory.InventoryLog) InventoryLogResponse {
	return InventoryLogResponse{
		ID:             l.ID,
		BookID:         l.BookID,
		ChangeQuantity: l.ChangeQuantity,
		BalanceBefore:  l.BalanceBefore,
		BalanceAfter:   l.BalanceAfter,
		Reason:         l.Reason.String(),
		TimestampUTC:   l.TimestampUTC,
		OrderID:        l.OrderID,
		StockReceiptID: l.StockReceiptID,
		UserID:         l.UserID,
		Notes:          l.Notes,
	}
}

// ReconciliationResponse compares a book's counter with its ledger
type ReconciliationResponse struct {
	BookID        uuid.UUID `json:"book_id"`
	StockQuantity int       `json:"stock_quantity"`
	LedgerSum     int       `json:"ledger_sum"`
	Consistent    bool      `json:"consistent"`
}
