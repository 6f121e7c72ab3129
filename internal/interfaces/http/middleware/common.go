// Package middleware provides HTTP middleware for the bookstore API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the gin context key holding the request ID
	RequestIDKey = "request_id"
	// RequestIDHeader carries the request ID in and out
	RequestIDHeader = "X-Request-ID"
	// TraceIDHeader returns the W3C trace ID of a traced request
	TraceIDHeader = "X-Trace-ID"
	// MaxRequestIDLength caps caller-supplied request IDs
	MaxRequestIDLength = 128
)

// RequestID adds a unique request ID to each request. A caller-supplied
// X-Request-ID is kept when it is short enough.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > MaxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig returns the default CORS configuration. No origin is
// allowed until one is configured.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID", "Idempotency-Key"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORSWithConfig answers preflights itself and decorates allowed origins.
// A "*" entry allows any origin but never with credentials.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	origins := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		origins[o] = true
	}
	static := http.Header{}
	static.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
	static.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
	if len(cfg.ExposeHeaders) > 0 {
		static.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
	}
	if cfg.MaxAge > 0 {
		static.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case origins["*"]:
			origin = "*"
		case !origins[origin]:
			origin = ""
		}

		if origin != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials && origin != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			for k, v := range static {
				h[k] = v
			}
		}

		// Preflight never reaches the router, allowed or not
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.Fail(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}

		// Chunked bodies carry no Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
