package cache

import (
	"context"
	"fmt"
	"time"

	apptrade "github.com/bookstore/backend/internal/application/trade"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces submission keys in a shared Redis
const DefaultKeyPrefix = "bookstore:submission:"

// RedisSubmissionGuard holds idempotency keys in Redis so every API replica
// sees the same reservations
type RedisSubmissionGuard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisSubmissionGuard wraps an existing client
func NewRedisSubmissionGuard(client *redis.Client, keyPrefix string) *RedisSubmissionGuard {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisSubmissionGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Reserve claims key with SETNX so only one caller wins
func (g *RedisSubmissionGuard) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve submission key: %w", err)
	}
	return ok, nil
}

// Release deletes key
func (g *RedisSubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release submission key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisSubmissionGuard) Close() error {
	return g.client.Close()
}

var _ apptrade.SubmissionGuard = (*RedisSubmissionGuard)(nil)
