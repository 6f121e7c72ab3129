package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("a"), "request %d", i+1)
	}
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "keys are independent")
	assert.Equal(t, 0, rl.Remaining("a"))
	assert.Equal(t, 3, rl.Remaining("unseen"))

	// One token refills every window/requests
	clock = clock.Add(20 * time.Second)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	clock := time.Now()
	rl.now = func() time.Time { return clock }

	rl.Allow("a")
	require.Len(t, rl.clients, 1)

	clock = clock.Add(3 * time.Second)
	rl.Allow("b")
	assert.Len(t, rl.clients, 1)
	_, ok := rl.clients["a"]
	assert.False(t, ok)
}

func TestRateLimit_Middleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)
	userA, userB := uuid.New(), uuid.New()

	r := gin.New()
	r.Use(RequestID(), func(c *gin.Context) {
		switch c.GetHeader("X-Test-User") {
		case "a":
			c.Set(JWTUserIDKey, userA.String())
		case "b":
			c.Set(JWTUserIDKey, userB.String())
		}
		c.Next()
	}, RateLimit(limiter))
	r.POST("/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set("X-Test-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send("a")
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusCreated, send("a").Code)

	blocked := send("a")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	var body dto.Response
	require.NoError(t, json.Unmarshal(blocked.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrCodeRateLimited, body.Error.Code)

	assert.Equal(t, http.StatusCreated, send("b").Code)
}
