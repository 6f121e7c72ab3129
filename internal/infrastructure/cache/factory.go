package cache

import (
	"context"
	"fmt"
	"io"

	apptrade "github.com/bookstore/backend/internal/application/trade"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Guard is a SubmissionGuard that owns resources
type Guard interface {
	apptrade.SubmissionGuard
	io.Closer
}

// SubmissionGuardFactory picks a SubmissionGuard implementation from configuration
type SubmissionGuardFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SubmissionGuardFactoryOption is a functional option for configuring the factory
type SubmissionGuardFactoryOption func(*SubmissionGuardFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SubmissionGuardFactoryOption {
	return func(f *SubmissionGuardFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory guard. Fallback is on by default.
func WithInMemoryFallback(allow bool) SubmissionGuardFactoryOption {
	return func(f *SubmissionGuardFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSubmissionGuardFactory creates a new factory
func NewSubmissionGuardFactory(cfg config.RedisConfig, opts ...SubmissionGuardFactoryOption) *SubmissionGuardFactory {
	f := &SubmissionGuardFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis guard when Redis is enabled and reachable, and the
// in-memory guard otherwise
func (f *SubmissionGuardFactory) Create(ctx context.Context) (Guard, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory submission guard")
		return NewInMemorySubmissionGuard(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis submission guard", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisSubmissionGuard(client, DefaultKeyPrefix), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for idempotent checkout but unavailable: %w", err)
	}

	f.logger.Warn("redis unavailable, falling back to in-memory submission guard; "+
		"retried checkouts on other replicas will not be deduplicated",
		zap.Error(err),
	)
	return NewInMemorySubmissionGuard(), nil
}
