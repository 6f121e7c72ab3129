package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	inventoryapp "github.com/bookstore/backend/internal/application/inventory"
	promotionapp "github.com/bookstore/backend/internal/application/promotion"
	tradeapp "github.com/bookstore/backend/internal/application/trade"
	"github.com/bookstore/backend/internal/infrastructure/auth"
	"github.com/bookstore/backend/internal/infrastructure/cache"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/bookstore/backend/internal/infrastructure/event"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/infrastructure/migration"
	"github.com/bookstore/backend/internal/infrastructure/persistence"
	"github.com/bookstore/backend/internal/infrastructure/scheduler"
	"github.com/bookstore/backend/internal/infrastructure/telemetry"
	"github.com/bookstore/backend/internal/interfaces/http/handler"
	"github.com/bookstore/backend/internal/interfaces/http/middleware"
	"github.com/bookstore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Logs go to stdout and, when enabled, to the collector as well
	collector := telemetry.Collector{
		Endpoint:       cfg.Telemetry.CollectorEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:   cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		Collector: collector,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := logProvider.Bridge(baseLog, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting bookstore backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:       cfg.Telemetry.Enabled,
		Collector:     collector,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	if cfg.Telemetry.ProfilingEnabled {
		tracerProvider.EnableSpanProfiles()
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:   cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		Collector: collector,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("bookstore"))
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeEndpoint,
		ApplicationName: cfg.Telemetry.ServiceName,
		Tags:            map[string]string{"env": cfg.App.Env, "version": version},
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}

	if err := runMigrations(&cfg.Database, log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if err := telemetry.RegisterPoolMetrics(meterProvider.Meter("bookstore"), db.PoolStats); err != nil {
		log.Fatal("Failed to register pool metrics", zap.Error(err))
	}

	guard, err := cache.NewSubmissionGuardFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize submission guard", zap.Error(err))
	}

	bus := event.NewInMemoryEventBus(log)
	audit := event.NewStockAuditHandler(log, cfg.Inventory.LowStockThreshold)
	bus.Subscribe(audit, audit.EventTypes()...)
	metricsHandler := event.NewMetricsHandler(businessMetrics)
	bus.Subscribe(metricsHandler, metricsHandler.EventTypes()...)

	// Application services share one transaction scope and one stock mutator
	scope := persistence.NewGormTransactionScope(db.DB)
	mutator := inventoryapp.NewStockMutator()
	promoValidator := promotionapp.NewValidator()

	bookService := catalogapp.NewBookService(scope, mutator, log)
	bookService.SetEventPublisher(bus)
	orderService := tradeapp.NewOrderService(scope, mutator, promoValidator, log)
	orderService.SetEventPublisher(bus)
	orderService.SetSubmissionGuard(guard, cfg.Order.IdempotencyTTL)
	receiptService := inventoryapp.NewStockReceiptService(scope, mutator, log)
	receiptService.SetEventPublisher(bus)
	adjustmentService := inventoryapp.NewAdjustmentService(scope, mutator, log)
	adjustmentService.SetEventPublisher(bus)
	ledgerService := inventoryapp.NewLedgerService(scope)
	promotionService := promotionapp.NewService(persistence.NewGormPromotionRepository(db.DB), promoValidator)

	var ledgerAudit *scheduler.Scheduler
	if cfg.Inventory.AuditInterval > 0 {
		job := scheduler.NewLedgerAudit(persistence.NewGormBookRepository(db.DB), ledgerService, businessMetrics, cfg.Inventory.AuditWorkers, log)
		ledgerAudit, err = scheduler.New(scheduler.Config{Interval: cfg.Inventory.AuditInterval}, job, log)
		if err != nil {
			log.Fatal("Failed to create ledger audit", zap.Error(err))
		}
		ledgerAudit.Start(ctx)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		TokenValidator: auth.NewJWTService(cfg.JWT),
		CORS:           corsConfig(cfg.HTTP),
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
			SkipPaths:   middleware.DefaultTracingConfig().SkipPaths,
		},
		Profiling:      middleware.ProfilingConfig{Enabled: cfg.Telemetry.ProfilingEnabled},
		TrustedProxies: cfg.HTTP.TrustedProxies,
		OrderLimiter:   orderLimiter(cfg.HTTP),
	}, router.Handlers{
		Books:      handler.NewBookHandler(bookService),
		Orders:     handler.NewOrderHandler(orderService),
		Inventory:  handler.NewInventoryHandler(receiptService, adjustmentService, ledgerService),
		Promotions: handler.NewPromotionHandler(promotionService),
		Health:     handler.NewHealthHandler(map[string]handler.Pinger{"database": db}),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if ledgerAudit != nil {
		if err := ledgerAudit.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping ledger audit", zap.Error(err))
		}
	}
	if err := guard.Close(); err != nil {
		log.Error("Error closing submission guard", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	// Flush the log exporter last so the lines above still reach the collector
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited")
}

// runMigrations brings the schema up to date on a dedicated connection. The
// migrator closes its handle when done, so it must not share the GORM pool.
func runMigrations(cfg *config.DatabaseConfig, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

func orderLimiter(cfg config.HTTPConfig) *middleware.RateLimiter {
	if !cfg.RateLimitEnabled {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
