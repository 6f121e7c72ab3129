// Command seed fills an empty database with a demo catalog: one supplier,
// a shelf of books received through a stock receipt, and a welcome promotion.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	inventoryapp "github.com/bookstore/backend/internal/application/inventory"
	promotionapp "github.com/bookstore/backend/internal/application/promotion"
	"github.com/bookstore/backend/internal/domain/partner"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/infrastructure/persistence"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	var (
		books int
		seed  uint64
	)
	flag.IntVar(&books, "books", 50, "Number of books to create")
	flag.Uint64Var(&seed, "seed", 0, "Faker seed; 0 picks a random one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	scope := persistence.NewGormTransactionScope(db.DB)
	mutator := inventoryapp.NewStockMutator()
	s := &seeder{
		faker:     gofakeit.New(seed),
		suppliers: persistence.NewGormSupplierRepository(db.DB),
		books:     catalogapp.NewBookService(scope, mutator, log),
		receipts:  inventoryapp.NewStockReceiptService(scope, mutator, log),
		promos:    promotionapp.NewService(persistence.NewGormPromotionRepository(db.DB), nil),
		log:       log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := s.run(ctx, books); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}

type seeder struct {
	faker     *gofakeit.Faker
	suppliers partner.SupplierRepository
	books     *catalogapp.BookService
	receipts  *inventoryapp.StockReceiptService
	promos    *promotionapp.Service
	log       *zap.Logger
}

// staffID attributes the seeded ledger rows to a fixed operator
var staffID = uuid.MustParse("00000000-0000-0000-0000-000000005eed")

func (s *seeder) run(ctx context.Context, n int) error {
	if n <= 0 {
		return fmt.Errorf("books must be positive, got %d", n)
	}
	supplier, err := fakeSupplier(s.faker)
	if err != nil {
		return err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return fmt.Errorf("save supplier: %w", err)
	}

	lines := make([]inventoryapp.StockReceiptLineInput, 0, n)
	for _, req := range fakeBooks(s.faker, n) {
		book, err := s.books.Create(ctx, staffID, req)
		if err != nil {
			return fmt.Errorf("create book %q: %w", req.Title, err)
		}
		cost := book.Price.Mul(decimal.RequireFromString("0.6")).Round(2)
		lines = append(lines, inventoryapp.StockReceiptLineInput{
			BookID:           book.ID,
			QuantityReceived: s.faker.IntRange(1, 40),
			PurchasePrice:    &cost,
		})
	}

	receipt, err := s.receipts.CreateStockReceipt(ctx, staffID, inventoryapp.CreateStockReceiptRequest{
		SupplierID: &supplier.ID,
		Notes:      "opening stock",
		Lines:      lines,
	})
	if err != nil {
		return fmt.Errorf("receive opening stock: %w", err)
	}

	pct := decimal.NewFromInt(10)
	limit := 100
	promo, err := s.promos.Create(ctx, promotionapp.CreatePromotionRequest{
		Code:               "WELCOME10",
		Description:        "10% off your first order",
		DiscountPercentage: &pct,
		StartDate:          time.Now().UTC(),
		MaxUsage:           &limit,
	})
	switch {
	case errors.Is(err, shared.ErrAlreadyExists):
		s.log.Info("Promotion already seeded", zap.String("code", "WELCOME10"))
	case err != nil:
		return fmt.Errorf("create promotion: %w", err)
	default:
		s.log.Info("Promotion created", zap.String("code", promo.Code))
	}

	s.log.Info("Seed complete",
		zap.String("supplier", supplier.Name),
		zap.Int("books", n),
		zap.Int("units", receipt.TotalQuantity),
	)
	return nil
}

func fakeSupplier(f *gofakeit.Faker) (*partner.Supplier, error) {
	supplier, err := partner.NewSupplier(f.Company() + " Publishing")
	if err != nil {
		return nil, err
	}
	if err := supplier.SetContact(f.Name(), f.Phone(), f.Email()); err != nil {
		return nil, err
	}
	return supplier, nil
}

// fakeBooks returns n catalog entries with unique titles and prices between 4.99 and 59.99
func fakeBooks(f *gofakeit.Faker, n int) []catalogapp.CreateBookRequest {
	seen := make(map[string]int, n)
	out := make([]catalogapp.CreateBookRequest, 0, n)
	for len(out) < n {
		title := f.BookTitle()
		if c := seen[title]; c > 0 {
			seen[title] = c + 1
			title = fmt.Sprintf("%s, Vol. %d", title, c+1)
		} else {
			seen[title] = 1
		}
		out = append(out, catalogapp.CreateBookRequest{
			Title:  title,
			Author: f.BookAuthor(),
			ISBN:   f.Numerify("978##########"),
			Price:  decimal.NewFromFloat(f.Price(4.99, 59.99)).Round(2),
		})
	}
	return out
}
