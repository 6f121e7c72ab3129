// Package router assembles the gin engine for the bookstore API.
package router

import (
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/interfaces/http/handler"
	"github.com/bookstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the API serves
type Handlers struct {
	Books      *handler.BookHandler
	Orders     *handler.OrderHandler
	Inventory  *handler.InventoryHandler
	Promotions *handler.PromotionHandler
	Health     *handler.HealthHandler
}

// EngineConfig holds the cross-cutting settings of the engine
type EngineConfig struct {
	Logger         *zap.Logger
	TokenValidator middleware.TokenValidator
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	Tracing        middleware.TracingConfig
	Profiling      middleware.ProfilingConfig
	TrustedProxies []string
	// OrderLimiter throttles order submission; nil disables it
	OrderLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with middleware and every route
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(cfg.Logger),
		logger.GinMiddleware(cfg.Logger),
		middleware.Tracing(cfg.Tracing),
		middleware.CORSWithConfig(cfg.CORS),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", h.Health.Live)
	engine.GET("/ready", h.Health.Ready)

	api := NewAPI(engine, "v1",
		middleware.JWTAuth(middleware.JWTMiddlewareConfig{Validator: cfg.TokenValidator, Logger: cfg.Logger}),
		middleware.SpanAttributes(),
		middleware.Profiling(cfg.Profiling),
	)
	staff := middleware.RequireStaff()
	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.OrderLimiter != nil {
		throttle = middleware.RateLimit(cfg.OrderLimiter)
	}

	api.Section("catalog", "/books").
		GET("", h.Books.List).
		GET("/:id", h.Books.Get).
		POST("", staff, h.Books.Create).
		PUT("/:id/price", staff, h.Books.UpdatePrice).
		DELETE("/:id", staff, h.Books.Delete)

	api.Section("orders", "/orders").
		POST("", throttle, h.Orders.CreateOnline).
		GET("", h.Orders.ListMine).
		GET("/:id", h.Orders.Get).
		POST("/:id/cancel", h.Orders.Cancel).
		POST("/in-store", staff, throttle, h.Orders.CreateInStore).
		PUT("/:id/status", staff, h.Orders.UpdateStatus)

	api.Section("stock-receipts", "/stock-receipts", staff).
		POST("", h.Inventory.CreateStockReceipt)

	api.Section("inventory", "/inventory", staff).
		POST("/adjustments", h.Inventory.Adjust).
		GET("/books/:id/ledger", h.Inventory.Ledger).
		GET("/books/:id/reconcile", h.Inventory.Reconcile)

	api.Section("promotions", "/promotions").
		POST("/validate", h.Promotions.Validate).
		POST("", staff, h.Promotions.Create).
		POST("/:id/deactivate", staff, h.Promotions.Deactivate)

	cfg.Logger.Debug("API mounted", zap.Strings("sections", api.Sections()))
	return engine, nil
}
