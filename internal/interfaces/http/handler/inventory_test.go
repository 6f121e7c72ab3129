package handler

import (
	"net/http"
	"testing"

	inventoryapp "github.com/bookstore/backend/internal/application/inventory"
	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInventoryRouter(svc *mockInventoryServices, userID uuid.UUID) *gin.Engine {
	h := NewInventoryHandler(svc, svc, svc)
	r := newTestRouter(asUser(userID, auth.RoleStaff))
	r.POST("/stock-receipts", h.CreateStockReceipt)
	r.POST("/inventory/adjustments", h.Adjust)
	r.GET("/inventory/books/:id/ledger", h.Ledger)
	r.GET("/inventory/books/:id/reconcile", h.Reconcile)
	return r
}

func TestInventoryHandler_CreateStockReceipt(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()
	svc := new(mockInventoryServices)
	r := newInventoryRouter(svc, userID)

	svc.On("CreateStockReceipt", mock.Anything, userID, mock.MatchedBy(func(req inventoryapp.CreateStockReceiptRequest) bool {
		return len(req.Lines) == 1 && req.Lines[0].BookID == bookID && req.Lines[0].QuantityReceived == 30
	})).Return(&inventoryapp.StockReceiptResponse{ID: uuid.New(), TotalQuantity: 30}, nil)

	w := doJSON(r, http.MethodPost, "/stock-receipts", map[string]any{
		"lines": []map[string]any{{"book_id": bookID, "quantity_received": 30, "purchase_price": "4.50"}},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 30, decodeResponse(t, w).Data.(map[string]any)["total_quantity"])
	svc.AssertExpectations(t)
}

func TestInventoryHandler_CreateStockReceipt_EmptyLines(t *testing.T) {
	svc := new(mockInventoryServices)
	r := newInventoryRouter(svc, uuid.New())

	w := doJSON(r, http.MethodPost, "/stock-receipts", map[string]any{"lines": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateStockReceipt", mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryHandler_Adjust(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()
	svc := new(mockInventoryServices)
	r := newInventoryRouter(svc, userID)

	svc.On("AdjustStockManually", mock.Anything, userID, inventoryapp.AdjustStockRequest{
		BookID: bookID, ChangeQuantity: -3, Reason: inventory.ReasonAdjustment, Notes: "water damage",
	}).Return(nil, shared.NewDomainError(shared.CodeInsufficientStock, "stock cannot go below zero"))

	w := doJSON(r, http.MethodPost, "/inventory/adjustments", map[string]any{
		"book_id": bookID, "change_quantity": -3, "reason": "ADJUSTMENT", "notes": "water damage",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	svc.AssertExpectations(t)
}

func TestInventoryHandler_Ledger(t *testing.T) {
	bookID := uuid.New()
	svc := new(mockInventoryServices)
	r := newInventoryRouter(svc, uuid.New())

	rows := []inventoryapp.InventoryLogResponse{
		{BookID: bookID, ChangeQuantity: -2, BalanceBefore: 10, BalanceAfter: 8, Reason: "ONLINE_SALE"},
		{BookID: bookID, ChangeQuantity: 10, BalanceBefore: 0, BalanceAfter: 10, Reason: "INITIAL_STOCK"},
	}
	page := shared.NewPaginated(rows, 2, 1, 20)
	svc.On("ListByBook", mock.Anything, bookID, 1, 20).Return(&page, nil)

	w := doJSON(r, http.MethodGet, "/inventory/books/"+bookID.String()+"/ledger", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Len(t, resp.Data.([]any), 2)
}

func TestInventoryHandler_Reconcile(t *testing.T) {
	bookID := uuid.New()
	svc := new(mockInventoryServices)
	r := newInventoryRouter(svc, uuid.New())

	svc.On("Reconcile", mock.Anything, bookID).Return(&inventoryapp.ReconciliationResponse{
		BookID: bookID, StockQuantity: 8, LedgerSum: 8, Consistent: true,
	}, nil)

	w := doJSON(r, http.MethodGet, "/inventory/books/"+bookID.String()+"/reconcile", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeResponse(t, w).Data.(map[string]any)["consistent"])
}
