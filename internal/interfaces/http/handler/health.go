package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler probing each named dependency
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Live reports that the process is serving
// GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready probes every dependency
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}
