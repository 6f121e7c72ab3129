package persistence

import (
	"context"

	appinv "github.com/bookstore/backend/internal/application/inventory"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/bookstore/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. The transaction rolls back
// when fn returns an error or panics, and commits otherwise.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories binds every repository to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) BookRepo() catalog.BookRepository {
	return NewGormBookRepository(r.tx)
}

func (r *gormTransactionalRepositories) InventoryLogRepo() inventory.InventoryLogRepository {
	return NewGormInventoryLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockReceiptRepo() inventory.StockReceiptRepository {
	return NewGormStockReceiptRepository(r.tx)
}

func (r *gormTransactionalRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) CartRepo() trade.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *gormTransactionalRepositories) AddressRepo() trade.AddressRepository {
	return NewGormAddressRepository(r.tx)
}

func (r *gormTransactionalRepositories) PromotionRepo() promotion.PromotionRepository {
	return NewGormPromotionRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
