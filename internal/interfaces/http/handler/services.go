package handler

import (
	"context"

	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	inventoryapp "github.com/bookstore/backend/internal/application/inventory"
	promotionapp "github.com/bookstore/backend/internal/application/promotion"
	tradeapp "github.com/bookstore/backend/internal/application/trade"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookService is the catalog surface the book handler needs
type BookService interface {
	Create(ctx context.Context, userID uuid.UUID, req catalogapp.CreateBookRequest) (*catalogapp.BookResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.BookResponse, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[catalogapp.BookResponse], error)
	UpdatePrice(ctx context.Context, id uuid.UUID, req catalogapp.UpdateBookPriceRequest) (*catalogapp.BookResponse, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// OrderService is the trade surface the order handler needs
type OrderService interface {
	CreateOnlineOrder(ctx context.Context, userID uuid.UUID, req tradeapp.CreateOnlineOrderRequest) (*tradeapp.OrderResponse, error)
	CreateInStoreOrder(ctx context.Context, staffUserID uuid.UUID, req tradeapp.CreateInStoreOrderRequest) (*tradeapp.OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus trade.OrderStatus, actingUserID uuid.UUID) (bool, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*tradeapp.OrderResponse, error)
	GetByID(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*tradeapp.OrderResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (*shared.Paginated[tradeapp.OrderResponse], error)
}

// StockReceiptService records goods received
type StockReceiptService interface {
	CreateStockReceipt(ctx context.Context, userID uuid.UUID, req inventoryapp.CreateStockReceiptRequest) (*inventoryapp.StockReceiptResponse, error)
}

// AdjustmentService applies operator stock corrections
type AdjustmentService interface {
	AdjustStockManually(ctx context.Context, userID uuid.UUID, req inventoryapp.AdjustStockRequest) (*inventoryapp.InventoryLogResponse, error)
}

// LedgerService reads the inventory ledger
type LedgerService interface {
	ListByBook(ctx context.Context, bookID uuid.UUID, page, pageSize int) (*shared.Paginated[inventoryapp.InventoryLogResponse], error)
	Reconcile(ctx context.Context, bookID uuid.UUID) (*inventoryapp.ReconciliationResponse, error)
}

// PromotionService validates and administers promotion codes
type PromotionService interface {
	ValidateAndCalculateDiscount(ctx context.Context, code string, subtotal decimal.Decimal) (*promotionapp.DiscountResponse, error)
	Create(ctx context.Context, req promotionapp.CreatePromotionRequest) (*promotionapp.PromotionResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*promotionapp.PromotionResponse, error)
}

var (
	_ BookService         = (*catalogapp.BookService)(nil)
	_ OrderService        = (*tradeapp.OrderService)(nil)
	_ StockReceiptService = (*inventoryapp.StockReceiptService)(nil)
	_ AdjustmentService   = (*inventoryapp.AdjustmentService)(nil)
	_ LedgerService       = (*inventoryapp.LedgerService)(nil)
	_ PromotionService    = (*promotionapp.Service)(nil)
)
