package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client key
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window for each key, with bursts up to requests.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		clients: make(map[string]*bucket),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		idleTTL: window * 2,
		now:     time.Now,
	}
}

// Allow reports whether key may make another request now
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evictIdle(now)

	b, ok := rl.clients[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Remaining returns the whole tokens left for key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[key]
	if !ok {
		return rl.burst
	}
	tokens := int(b.limiter.TokensAt(rl.now()))
	if tokens < 0 {
		return 0
	}
	return tokens
}

// evictIdle drops buckets that have been full long enough to be forgotten.
// Caller holds rl.mu.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for key, b := range rl.clients {
		if now.Sub(b.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}

// RateLimit throttles each authenticated user, falling back to the client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		if userID, ok := GetJWTUserID(c); ok {
			return "user:" + userID.String()
		}
		return "ip:" + c.ClientIP()
	})
}

// RateLimitByKey throttles requests grouped by keyFunc
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(limiter.retryAfter().Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Fail(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}

func (rl *RateLimiter) retryAfter() time.Duration {
	if rl.limit == rate.Inf || rl.limit == 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(rl.limit))
}
