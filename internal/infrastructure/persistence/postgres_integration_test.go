//go:build integration

package persistence_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	appcatalog "github.com/bookstore/backend/internal/application/catalog"
	appinv "github.com/bookstore/backend/internal/application/inventory"
	apppromo "github.com/bookstore/backend/internal/application/promotion"
	apptrade "github.com/bookstore/backend/internal/application/trade"
	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/bookstore/backend/internal/infrastructure/migration"
	"github.com/bookstore/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// startPostgres runs a throwaway PostgreSQL 16 container, applies the
// embedded migrations and returns a GORM handle on it.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bookstore_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(4), version)
	assert.False(t, dirty)
	require.NoError(t, m.Close())

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	pool, err := db.DB()
	require.NoError(t, err)
	pool.SetMaxOpenConns(20)
	t.Cleanup(func() {
		_ = pool.Close()
	})
	return db
}

func TestPostgres_ConcurrentCheckouts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	db := startPostgres(t)

	scope := persistence.NewGormTransactionScope(db)
	mutator := appinv.NewStockMutator()
	books := appcatalog.NewBookService(scope, mutator, nil)
	orders := apptrade.NewOrderService(scope, mutator, apppromo.NewValidator(), nil)
	ledger := appinv.NewLedgerService(scope)

	book, err := books.Create(ctx, uuid.New(), appcatalog.CreateBookRequest{
		Title:        "Limited Edition",
		Price:        decimal.RequireFromString("20.00"),
		InitialStock: 5,
	})
	require.NoError(t, err)

	const buyers = 12
	users := make([]uuid.UUID, buyers)
	addresses := make([]uuid.UUID, buyers)
	for i := range users {
		users[i] = uuid.New()
		item, err := trade.NewCartItem(users[i], book.ID, 1)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormCartRepository(db).Save(ctx, item))
		addr, err := trade.NewAddress(users[i], "Buyer", "", "1 Main St", "", "", "Hanoi")
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormAddressRepository(db).Save(ctx, addr))
		addresses[i] = addr.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orders.CreateOnlineOrder(ctx, users[i], apptrade.CreateOnlineOrderRequest{ShippingAddressID: addresses[i]})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	}
	assert.Equal(t, 5, succeeded)

	got, err := books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Zero(t, got.StockQuantity)

	rec, err := ledger.Reconcile(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent, "ledger sum %d, stock %d", rec.LedgerSum, rec.StockQuantity)
}

func TestPostgres_PromotionUsageLimitUnderContention(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	db := startPostgres(t)

	pct := decimal.NewFromInt(50)
	limit := 2
	promo, err := promotion.NewPromotion("HALF", "", &pct, nil, time.Now().Add(-time.Hour), nil, &limit)
	require.NoError(t, err)
	repo := persistence.NewGormPromotionRepository(db)
	require.NoError(t, repo.Save(ctx, promo))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.IncrementUsage(ctx, promo.ID); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, granted)
	stored, err := repo.FindByID(ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, limit, stored.CurrentUsage)
}
