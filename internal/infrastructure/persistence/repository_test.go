package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBook(t *testing.T, title string, price string) *catalog.Book {
	t.Helper()
	book, err := catalog.NewBook(title, "Author", "978000000000", decimal.RequireFromString(price))
	require.NoError(t, err)
	return book
}

func TestGormBookRepository_SaveAndFind(t *testing.T) {
	db := OpenTestDB(t)
	repo := NewGormBookRepository(db)
	ctx := context.Background()

	book := newBook(t, "Dune", "12.50")
	require.NoError(t, repo.Save(ctx, book))

	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", found.Title)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 0, found.StockQuantity)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	locked, err := repo.FindByIDForUpdate(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, locked.ID)
}

func TestGormBookRepository_FindAllSkipsDeleted(t *testing.T) {
	db := OpenTestDB(t)
	repo := NewGormBookRepository(db)
	ctx := context.Background()

	live := newBook(t, "Alpha", "5.00")
	gone := newBook(t, "Beta", "5.00")
	require.NoError(t, gone.SoftDelete())
	require.NoError(t, repo.Save(ctx, live))
	require.NoError(t, repo.Save(ctx, gone))

	books, total, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, live.ID, books[0].ID)

	// Deleted books stay readable by ID for history.
	found, err := repo.FindByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.True(t, found.IsDeleted)

	byIDs, err := repo.FindByIDs(ctx, []uuid.UUID{live.ID, gone.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)
}

func TestGormBookRepository_SaveStockVersionGuard(t *testing.T) {
	db := OpenTestDB(t)
	repo := NewGormBookRepository(db)
	ctx := context.Background()

	book := newBook(t, "Guarded", "1.00")
	require.NoError(t, repo.Save(ctx, book))

	expected := book.Version
	book.StockQuantity = 7
	book.Version = expected + 1
	require.NoError(t, repo.SaveStock(ctx, book, expected))

	// A second writer holding the stale version loses.
	book.StockQuantity = 3
	err := repo.SaveStock(ctx, book, expected)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, found.StockQuantity)
	assert.Equal(t, expected+1, found.Version)
}

func TestGormInventoryLogRepository_SumAndPaging(t *testing.T) {
	db := OpenTestDB(t)
	repo := NewGormInventoryLogRepository(db)
	ctx := context.Background()
	bookID := uuid.New()
	orderID := uuid.New()

	entries := []struct {
		change, before int
		reason         inventory.Reason
	}{
		{10, 0, inventory.ReasonInitialStock},
		{-3, 10, inventory.ReasonOnlineSale},
		{5, 7, inventory.ReasonStockReceipt},
	}
	for i, e := range entries {
		entry, err := inventory.NewInventoryLog(bookID, e.change, e.before, e.reason)
		require.NoError(t, err)
		entry.TimestampUTC = time.Now().UTC().Add(time.Duration(i) * time.Second)
		if e.reason == inventory.ReasonOnlineSale {
			entry.WithOrderID(orderID)
		}
		require.NoError(t, repo.Create(ctx, entry))
	}

	sum, err := repo.SumByBook(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, 12, sum)

	empty, err := repo.SumByBook(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, empty)

	page, total, err := repo.FindByBook(ctx, bookID, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, inventory.ReasonStockReceipt, page[0].Reason)
	assert.Equal(t, 12, page[0].BalanceAfter)

	byOrder, err := repo.FindByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, byOrder, 1)
	assert.Equal(t, -3, byOrder[0].ChangeQuantity)
}

func TestGormPromotionRepository_IncrementUsageRespectsLimit(t *testing.T) {
	db := OpenTestDB(t)
	repo := NewGormPromotionRepository(db)
	ctx := context.Background()

	pct := decimal.NewFromInt(10)
	limit := 2
	promo, err := promotion.NewPromotion("save10", "ten off", &pct, nil, time.Now().Add(-time.Hour), nil, &limit)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, promo))

	found, err := repo.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, promo.ID, found.ID)

	exists, err := repo.ExistsByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.IncrementUsage(ctx, promo.ID))
	require.NoError(t, repo.IncrementUsage(ctx, promo.ID))
	err = repo.IncrementUsage(ctx, promo.ID)
	assert.ErrorIs(t, err, shared.ErrValidation)

	found, err = repo.FindByID(ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.CurrentUsage)

	require.NoError(t, repo.Deactivate(ctx, promo.ID))
	assert.ErrorIs(t, repo.Deactivate(ctx, promo.ID), shared.ErrInvalidState)
	assert.ErrorIs(t, repo.Deactivate(ctx, uuid.New()), shared.ErrNotFound)

	found, err = repo.FindByID(ctx, promo.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
	assert.Equal(t, 2, found.CurrentUsage)
}

func TestGormCartRepository_UpsertAndClear(t *testing.T) {
	db := OpenTestDB(t)
	carts := NewGormCartRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	bookID := uuid.New()

	item, err := trade.NewCartItem(userID, bookID, 1)
	require.NoError(t, err)
	require.NoError(t, carts.Save(ctx, item))

	item.Quantity = 4
	require.NoError(t, carts.Save(ctx, item))

	items, err := carts.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)

	require.NoError(t, carts.ClearForUser(ctx, userID))
	items, err = carts.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGormOrderRepository_RoundTrip(t *testing.T) {
	db := OpenTestDB(t)
	orders := NewGormOrderRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	order, err := trade.NewOnlineOrder(userID, trade.PaymentMethodCashOnDelivery)
	require.NoError(t, err)
	require.NoError(t, order.AddDetail(uuid.New(), "Dune", 2, decimal.RequireFromString("10.00")))
	order.SetShippingAddress(trade.OrderShippingAddress{RecipientName: "Ann", Street: "1 Main St", City: "Hanoi"})
	require.NoError(t, order.Place())
	require.NoError(t, orders.Create(ctx, order))

	found, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusPending, found.Status)
	require.Len(t, found.Details, 1)
	assert.Equal(t, 2, found.Details[0].Quantity)
	require.NotNil(t, found.ShippingAddress)
	assert.Equal(t, "Hanoi", found.ShippingAddress.City)
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("20.00")))

	expected := found.Version
	require.NoError(t, found.TransitionTo(trade.OrderStatusConfirmed))
	require.NoError(t, orders.UpdateStatus(ctx, found, expected))
	assert.ErrorIs(t, orders.UpdateStatus(ctx, found, expected), shared.ErrConcurrencyConflict)

	list, total, err := orders.FindByUser(ctx, userID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, trade.OrderStatusConfirmed, list[0].Status)

	_, err = orders.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSupplierRepository_SaveUpserts(t *testing.T) {
	db := OpenTestDB(t)
	repo := NewGormSupplierRepository(db)
	ctx := context.Background()

	supplier, err := partner.NewSupplier("Harbor Press")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, supplier))

	require.NoError(t, supplier.SetContact("Mira", "555-0101", "mira@harbor.test"))
	require.NoError(t, supplier.Deactivate())
	require.NoError(t, repo.Save(ctx, supplier))

	found, err := repo.FindByID(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, "mira@harbor.test", found.Email)
	assert.False(t, found.IsActive())
	assert.Equal(t, 3, found.Version)

	var rows int64
	require.NoError(t, db.Model(&models.SupplierModel{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}
