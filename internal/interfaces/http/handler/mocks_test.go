package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	inventoryapp "github.com/bookstore/backend/internal/application/inventory"
	promotionapp "github.com/bookstore/backend/internal/application/promotion"
	tradeapp "github.com/bookstore/backend/internal/application/trade"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/bookstore/backend/internal/infrastructure/auth"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/bookstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser stands in for JWTAuth in handler tests
func asUser(id uuid.UUID, role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, id.String())
		c.Set(middleware.JWTRoleKey, role)
		c.Next()
	}
}

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(mw...)
	return r
}

func doJSON(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type mockBookService struct{ mock.Mock }

func (m *mockBookService) Create(ctx context.Context, userID uuid.UUID, req catalogapp.CreateBookRequest) (*catalogapp.BookResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.BookResponse), args.Error(1)
}

func (m *mockBookService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.BookResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.BookResponse), args.Error(1)
}

func (m *mockBookService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[catalogapp.BookResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalogapp.BookResponse]), args.Error(1)
}

func (m *mockBookService) UpdatePrice(ctx context.Context, id uuid.UUID, req catalogapp.UpdateBookPriceRequest) (*catalogapp.BookResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.BookResponse), args.Error(1)
}

func (m *mockBookService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) CreateOnlineOrder(ctx context.Context, userID uuid.UUID, req tradeapp.CreateOnlineOrderRequest) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *mockOrderService) CreateInStoreOrder(ctx context.Context, staffUserID uuid.UUID, req tradeapp.CreateInStoreOrderRequest) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, staffUserID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *mockOrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus trade.OrderStatus, actingUserID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID, newStatus, actingUserID)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *mockOrderService) GetByID(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, orderID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *mockOrderService) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (*shared.Paginated[tradeapp.OrderResponse], error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[tradeapp.OrderResponse]), args.Error(1)
}

type mockInventoryServices struct{ mock.Mock }

func (m *mockInventoryServices) CreateStockReceipt(ctx context.Context, userID uuid.UUID, req inventoryapp.CreateStockReceiptRequest) (*inventoryapp.StockReceiptResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StockReceiptResponse), args.Error(1)
}

func (m *mockInventoryServices) AdjustStockManually(ctx context.Context, userID uuid.UUID, req inventoryapp.AdjustStockRequest) (*inventoryapp.InventoryLogResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.InventoryLogResponse), args.Error(1)
}

func (m *mockInventoryServices) ListByBook(ctx context.Context, bookID uuid.UUID, page, pageSize int) (*shared.Paginated[inventoryapp.InventoryLogResponse], error) {
	args := m.Called(ctx, bookID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[inventoryapp.InventoryLogResponse]), args.Error(1)
}

func (m *mockInventoryServices) Reconcile(ctx context.Context, bookID uuid.UUID) (*inventoryapp.ReconciliationResponse, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.ReconciliationResponse), args.Error(1)
}

type mockPromotionService struct{ mock.Mock }

func (m *mockPromotionService) ValidateAndCalculateDiscount(ctx context.Context, code string, subtotal decimal.Decimal) (*promotionapp.DiscountResponse, error) {
	args := m.Called(ctx, code, subtotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotionapp.DiscountResponse), args.Error(1)
}

func (m *mockPromotionService) Create(ctx context.Context, req promotionapp.CreatePromotionRequest) (*promotionapp.PromotionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotionapp.PromotionResponse), args.Error(1)
}

func (m *mockPromotionService) Deactivate(ctx context.Context, id uuid.UUID) (*promotionapp.PromotionResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotionapp.PromotionResponse), args.Error(1)
}
