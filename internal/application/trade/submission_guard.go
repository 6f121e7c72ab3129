package trade

import (
	"context"
	"time"
)

// SubmissionGuard remembers recently used idempotency keys so a retried
// checkout request cannot place the same order twice.
type SubmissionGuard interface {
	// Reserve claims key for ttl. It returns false if the key is already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees key so the caller may retry after a failed attempt
	Release(ctx context.Context, key string) error
}
