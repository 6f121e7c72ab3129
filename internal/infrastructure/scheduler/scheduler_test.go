package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	appinv "github.com/bookstore/backend/internal/application/inventory"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingJob struct {
	calls atomic.Int32
	err   error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.calls.Add(1)
	return j.err
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{}, &countingJob{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(DefaultConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScheduler_FiresUntilStopped(t *testing.T) {
	job := &countingJob{err: errors.New("boom")}
	s, err := New(Config{Interval: 10 * time.Millisecond, RunOnStart: true}, job, zap.NewNop())
	require.NoError(t, err)

	s.Start(context.Background())
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return job.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))

	stopped := job.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, job.calls.Load())
	assert.Equal(t, int(stopped), s.Runs())
}

type pagedBooks struct {
	books []catalog.Book
	err   error
}

func (p *pagedBooks) FindAll(_ context.Context, f shared.Filter) ([]catalog.Book, int64, error) {
	if p.err != nil {
		return nil, 0, p.err
	}
	start := f.Offset()
	if start > len(p.books) {
		start = len(p.books)
	}
	end := start + f.PageSize
	if end > len(p.books) {
		end = len(p.books)
	}
	return p.books[start:end], int64(len(p.books)), nil
}

type fakeReconciler struct {
	drift  map[uuid.UUID]int
	broken map[uuid.UUID]bool
}

func (r *fakeReconciler) Reconcile(_ context.Context, id uuid.UUID) (*appinv.ReconciliationResponse, error) {
	if r.broken[id] {
		return nil, errors.New("connection reset")
	}
	sum := 10
	return &appinv.ReconciliationResponse{
		BookID:        id,
		StockQuantity: sum + r.drift[id],
		LedgerSum:     sum,
		Consistent:    r.drift[id] == 0,
	}, nil
}

type driftRecorder struct {
	mu     sync.Mutex
	drifts map[uuid.UUID]int
}

func (d *driftRecorder) RecordLedgerMismatch(_ context.Context, id uuid.UUID, drift int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drifts[id] = drift
}

func catalogOf(n int) []catalog.Book {
	books := make([]catalog.Book, n)
	for i := range books {
		books[i].ID = uuid.New()
	}
	return books
}

func TestLedgerAudit_Sweep(t *testing.T) {
	books := catalogOf(auditPageSize*2 + 17)
	surplus, shortfall := books[3].ID, books[auditPageSize+5].ID
	reconciler := &fakeReconciler{drift: map[uuid.UUID]int{surplus: 2, shortfall: -1}}
	recorder := &driftRecorder{drifts: map[uuid.UUID]int{}}
	audit := NewLedgerAudit(&pagedBooks{books: books}, reconciler, recorder, 4, nil)

	require.NoError(t, audit.Run(context.Background()))

	report := audit.LastReport()
	require.NotNil(t, report)
	assert.Equal(t, len(books), report.Checked)
	assert.Zero(t, report.Failed)
	assert.Len(t, report.Mismatches, 2)
	assert.Equal(t, map[uuid.UUID]int{surplus: 2, shortfall: -1}, recorder.drifts)
}

func TestLedgerAudit_FailuresAreReported(t *testing.T) {
	books := catalogOf(5)
	reconciler := &fakeReconciler{broken: map[uuid.UUID]bool{books[0].ID: true}}
	audit := NewLedgerAudit(&pagedBooks{books: books}, reconciler, nil, 2, nil)

	err := audit.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 5")
	assert.Equal(t, 1, audit.LastReport().Failed)
}

func TestLedgerAudit_ListError(t *testing.T) {
	audit := NewLedgerAudit(&pagedBooks{err: errors.New("db down")}, &fakeReconciler{}, nil, 2, nil)

	_, err := audit.Sweep(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.Nil(t, audit.LastReport())
}

func TestLedgerAudit_EmptyCatalog(t *testing.T) {
	audit := NewLedgerAudit(&pagedBooks{}, &fakeReconciler{}, nil, 3, nil)

	report, err := audit.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Checked)
	assert.Empty(t, report.Mismatches)
}
