package scheduler

import (
	"context"
	"fmt"
	"sync"

	appinv "github.com/bookstore/backend/internal/application/inventory"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const auditPageSize = 100

// BookLister pages through the live catalog
type BookLister interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Book, int64, error)
}

// Reconciler compares one book's counter with its ledger
type Reconciler interface {
	Reconcile(ctx context.Context, bookID uuid.UUID) (*appinv.ReconciliationResponse, error)
}

// MismatchRecorder is told about every book whose counter drifted from its ledger
type MismatchRecorder interface {
	RecordLedgerMismatch(ctx context.Context, bookID uuid.UUID, drift int)
}

// Mismatch is a book whose stock_quantity differs from the ledger sum
type Mismatch struct {
	BookID        uuid.UUID
	StockQuantity int
	LedgerSum     int
}

// AuditReport summarises one sweep over the catalog
type AuditReport struct {
	Checked    int
	Failed     int
	Mismatches []Mismatch
}

// LedgerAudit reconciles every active book against its inventory ledger
type LedgerAudit struct {
	books      BookLister
	reconciler Reconciler
	recorder   MismatchRecorder
	workers    int
	logger     *zap.Logger

	mu   sync.Mutex
	last *AuditReport
}

// NewLedgerAudit creates the audit job. recorder may be nil.
func NewLedgerAudit(books BookLister, reconciler Reconciler, recorder MismatchRecorder, workers int, logger *zap.Logger) *LedgerAudit {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerAudit{
		books:      books,
		reconciler: reconciler,
		recorder:   recorder,
		workers:    workers,
		logger:     logger,
	}
}

// Name implements Job
func (a *LedgerAudit) Name() string { return "ledger-audit" }

// Run implements Job
func (a *LedgerAudit) Run(ctx context.Context) error {
	report, err := a.Sweep(ctx)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d books could not be reconciled", report.Failed, report.Checked)
	}
	return nil
}

// LastReport returns the outcome of the most recent completed sweep
func (a *LedgerAudit) LastReport() *AuditReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Sweep walks the catalog page by page and reconciles each book
func (a *LedgerAudit) Sweep(ctx context.Context) (*AuditReport, error) {
	ids := make(chan uuid.UUID)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go a.worker(ctx, ids, results, &wg)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	listErr := make(chan error, 1)
	go func() {
		defer close(ids)
		listErr <- a.feed(ctx, ids)
	}()

	report := &AuditReport{}
	for r := range results {
		report.Checked++
		switch {
		case r.err != nil:
			report.Failed++
			a.logger.Warn("Ledger reconciliation failed", zap.String("book_id", r.bookID.String()), zap.Error(r.err))
		case !r.resp.Consistent:
			m := Mismatch{BookID: r.bookID, StockQuantity: r.resp.StockQuantity, LedgerSum: r.resp.LedgerSum}
			report.Mismatches = append(report.Mismatches, m)
			a.logger.Error("Stock counter disagrees with ledger",
				zap.String("book_id", m.BookID.String()),
				zap.Int("stock_quantity", m.StockQuantity),
				zap.Int("ledger_sum", m.LedgerSum),
			)
			if a.recorder != nil {
				a.recorder.RecordLedgerMismatch(ctx, m.BookID, m.StockQuantity-m.LedgerSum)
			}
		}
	}
	if err := <-listErr; err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.last = report
	a.mu.Unlock()

	a.logger.Info("Ledger audit finished",
		zap.Int("checked", report.Checked),
		zap.Int("mismatches", len(report.Mismatches)),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

type result struct {
	bookID uuid.UUID
	resp   *appinv.ReconciliationResponse
	err    error
}

func (a *LedgerAudit) feed(ctx context.Context, ids chan<- uuid.UUID) error {
	for page := 1; ; page++ {
		books, total, err := a.books.FindAll(ctx, shared.Filter{Page: page, PageSize: auditPageSize, OrderBy: "created_at", OrderDir: "asc"})
		if err != nil {
			return fmt.Errorf("list books page %d: %w", page, err)
		}
		for i := range books {
			select {
			case ids <- books[i].ID:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if len(books) < auditPageSize || int64(page*auditPageSize) >= total {
			return nil
		}
	}
}

func (a *LedgerAudit) worker(ctx context.Context, ids <-chan uuid.UUID, results chan<- result, wg *sync.WaitGroup) {
	defer wg.Done()
	for id := range ids {
		resp, err := a.reconciler.Reconcile(ctx, id)
		results <- result{bookID: id, resp: resp, err: err}
	}
}
