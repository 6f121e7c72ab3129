package cache

import (
	"context"
	"sync"
	"time"

	apptrade "github.com/bookstore/backend/internal/application/trade"
)

// reservation is a held key and when it lapses
type reservation struct {
	expiresAt time.Time
}

// InMemorySubmissionGuard keeps idempotency keys in a map.
// Keys are not shared between processes, so it only suits single-instance
// deployments and tests.
type InMemorySubmissionGuard struct {
	mu        sync.Mutex
	entries   map[string]reservation
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySubmissionGuard creates a guard and starts its expiry sweeper
func NewInMemorySubmissionGuard() *InMemorySubmissionGuard {
	g := &InMemorySubmissionGuard{
		entries:  make(map[string]reservation),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	g.wg.Add(1)
	go g.cleanupLoop()

	return g
}

// Reserve claims key for ttl. An expired reservation may be claimed again.
func (g *InMemorySubmissionGuard) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if r, held := g.entries[key]; held && now.Before(r.expiresAt) {
		return false, nil
	}
	g.entries[key] = reservation{expiresAt: now.Add(ttl)}
	return true, nil
}

// Release drops key; releasing an unknown key is not an error
func (g *InMemorySubmissionGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.entries, key)
	g.mu.Unlock()
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (g *InMemorySubmissionGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

func (g *InMemorySubmissionGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *InMemorySubmissionGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for key, r := range g.entries {
		if !now.Before(r.expiresAt) {
			delete(g.entries, key)
		}
	}
}

// Size returns the number of held keys
func (g *InMemorySubmissionGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

var _ apptrade.SubmissionGuard = (*InMemorySubmissionGuard)(nil)
