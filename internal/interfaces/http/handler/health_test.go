package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	healthy := PingFunc(func(context.Context) error { return nil })
	broken := PingFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })

	t.Run("live", func(t *testing.T) {
		h := NewHealthHandler(map[string]Pinger{"database": broken})
		r := newTestRouter()
		r.GET("/health", h.Live)

		assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/health", nil).Code)
	})

	t.Run("ready", func(t *testing.T) {
		h := NewHealthHandler(map[string]Pinger{"database": healthy, "redis": healthy})
		r := newTestRouter()
		r.GET("/ready", h.Ready)

		w := doJSON(r, http.MethodGet, "/ready", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok","redis":"ok"}}`, w.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		h := NewHealthHandler(map[string]Pinger{"database": healthy, "redis": broken})
		r := newTestRouter()
		r.GET("/ready", h.Ready)

		w := doJSON(r, http.MethodGet, "/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}
