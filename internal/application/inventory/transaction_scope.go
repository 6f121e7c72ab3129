package inventory

import (
	"context"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/bookstore/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work. Every repository handed to fn shares
// one database transaction that commits when fn returns nil and rolls back
// otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to every repository a stock-changing
// operation may touch, all bound to the same transaction.
type TransactionalRepositories interface {
	BookRepo() catalog.BookRepository
	InventoryLogRepo() inventory.InventoryLogRepository
	StockReceiptRepo() inventory.StockReceiptRepository
	SupplierRepo() partner.SupplierRepository
	OrderRepo() trade.OrderRepository
	CartRepo() trade.CartRepository
	AddressRepo() trade.AddressRepository
	PromotionRepo() promotion.PromotionRepository
}

// NoOpTransactionScope hands out fixed repositories without opening a
// transaction. Tests use it with in-memory or mocked repositories.
type NoOpTransactionScope struct {
	Books         catalog.BookRepository
	InventoryLogs inventory.InventoryLogRepository
	StockReceipts inventory.StockReceiptRepository
	Suppliers     partner.SupplierRepository
	Orders        trade.OrderRepository
	Carts         trade.CartRepository
	Addresses     trade.AddressRepository
	Promotions    promotion.PromotionRepository
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) BookRepo() catalog.BookRepository { return s.Books }

func (s *NoOpTransactionScope) InventoryLogRepo() inventory.InventoryLogRepository {
	return s.InventoryLogs
}

func (s *NoOpTransactionScope) StockReceiptRepo() inventory.StockReceiptRepository {
	return s.StockReceipts
}

func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository { return s.Suppliers }

func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository { return s.Orders }

func (s *NoOpTransactionScope) CartRepo() trade.CartRepository { return s.Carts }

func (s *NoOpTransactionScope) AddressRepo() trade.AddressRepository { return s.Addresses }

func (s *NoOpTransactionScope) PromotionRepo() promotion.PromotionRepository { return s.Promotions }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
