package handler

import (
	inventoryapp "github.com/bookstore/backend/internal/application/inventory"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// InventoryHandler serves goods-in, manual adjustments and the ledger
type InventoryHandler struct {
	BaseHandler
	receipts    StockReceiptService
	adjustments AdjustmentService
	ledger      LedgerService
}

// NewInventoryHandler creates an InventoryHandler
func NewInventoryHandler(receipts StockReceiptService, adjustments AdjustmentService, ledger LedgerService) *InventoryHandler {
	return &InventoryHandler{
		receipts:    receipts,
		adjustments: adjustments,
		ledger:      ledger,
	}
}

// CreateStockReceipt posts received goods
// POST /stock-receipts
func (h *InventoryHandler) CreateStockReceipt(c *gin.Context) {
	userID, ok := h.ActingUser(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateStockReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receipt, err := h.receipts.CreateStockReceipt(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// Adjust applies an operator correction
// POST /inventory/adjustments
func (h *InventoryHandler) Adjust(c *gin.Context) {
	userID, ok := h.ActingUser(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.adjustments.AdjustStockManually(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Ledger pages through a book's stock movements, newest first
// GET /inventory/books/:id/ledger
func (h *InventoryHandler) Ledger(c *gin.Context) {
	bookID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var q dto.PageRequest
	if !h.BindQuery(c, &q) {
		return
	}
	q = q.Normalize()

	result, err := h.ledger.ListByBook(c.Request.Context(), bookID, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, result)
}

// Reconcile compares a book's stock counter with its ledger
// GET /inventory/books/:id/reconcile
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	bookID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.ledger.Reconcile(c.Request.Context(), bookID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
