// Package scheduler runs background maintenance jobs on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// Job is one unit of periodic work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Config struct {
	Interval time.Duration
	// JobTimeout bounds a single run; zero means one Interval
	JobTimeout time.Duration
	RunOnStart bool
}

func DefaultConfig() Config {
	return Config{Interval: time.Hour, JobTimeout: 10 * time.Minute}
}

// Scheduler fires a job every Interval until stopped. Runs never overlap
// because the ticker is drained by a single goroutine.
type Scheduler struct {
	cfg    Config
	job    Job
	logger *zap.Logger
	runs   atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config, job Job, logger *zap.Logger) (*Scheduler, error) {
	if cfg.Interval <= 0 || job == nil {
		return nil, ErrInvalidConfig
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = cfg.Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cfg: cfg, job: job, logger: logger.With(zap.String("job", job.Name()))}, nil
}

// Start launches the loop; a second call while running does nothing
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)

	s.logger.Info("Scheduler started", zap.Duration("interval", s.cfg.Interval))
}

// Stop cancels the loop and waits for an in-flight run, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if done == nil {
		return nil
	}

	cancel()
	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Runs is the number of times the job has fired
func (s *Scheduler) Runs() int {
	return int(s.runs.Load())
}

func (s *Scheduler) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	if s.cfg.RunOnStart {
		s.fire(ctx)
	}
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	s.runs.Add(1)
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	started := time.Now()
	err := s.job.Run(runCtx)
	switch {
	case err == nil:
		s.logger.Debug("Scheduled job completed", zap.Duration("elapsed", time.Since(started)))
	case ctx.Err() != nil:
		// shutting down; the run was cut short on purpose
	default:
		s.logger.Error("Scheduled job failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
	}
}
