package trade

import (
	"context"
	"sync"
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

func (m *MockBookRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Book, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Book), args.Error(1)
}

func (m *MockBookRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

func (m *MockBookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Book, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) Save(ctx context.Context, book *catalog.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *MockBookRepository) SaveStock(ctx context.Context, book *catalog.Book, expectedVersion int) error {
	return m.Called(ctx, book, expectedVersion).Error(0)
}

type MockInventoryLogRepository struct {
	mock.Mock
}

func (m *MockInventoryLogRepository) Create(ctx context.Context, log *inventory.InventoryLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockInventoryLogRepository) FindByBook(ctx context.Context, bookID uuid.UUID, filter shared.Filter) ([]inventory.InventoryLog, int64, error) {
	args := m.Called(ctx, bookID, filter)
	return args.Get(0).([]inventory.InventoryLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryLogRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.InventoryLog, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]inventory.InventoryLog), args.Error(1)
}

func (m *MockInventoryLogRepository) SumByBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	args := m.Called(ctx, bookID)
	return args.Int(0), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, order *trade.Order, expectedVersion int) error {
	return m.Called(ctx, order, expectedVersion).Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]trade.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]trade.CartItem), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, item *trade.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepository) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Address), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, address *trade.Address) error {
	return m.Called(ctx, address).Error(0)
}

type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) FindByCode(ctx context.Context, code string) (*promotion.Promotion, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPromotionRepository) Save(ctx context.Context, promo *promotion.Promotion) error {
	return m.Called(ctx, promo).Error(0)
}

func (m *MockPromotionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPromotionRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSubmissionGuard struct {
	mock.Mock
}

func (m *MockSubmissionGuard) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionGuard) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// recordingPublisher keeps every event it is handed
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
