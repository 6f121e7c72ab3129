package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "telemetry:query_start"

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include bound variables in db.statement, dev only
	SlowQueryThresh time.Duration // default 200ms
	DBName          string
	// TracerProvider overrides the global provider, mainly for tests
	TracerProvider trace.TracerProvider
}

// DefaultDBTracingConfig returns tracing disabled with a 200ms slow threshold
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "bookstore",
	}
}

// RegisterDBTracing installs the otelgorm plugin on db plus callbacks that
// tag each span with rows affected and flag slow statements.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := slowQueryCallback(cfg.SlowQueryThresh)

	// Span annotations must run before otelgorm ends the span.
	cb := db.Callback()
	err := errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", before),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("telemetry:after_create", after),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", before),
		cb.Query().After("gorm:query").Before("otel:after:select").Register("telemetry:after_query", after),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", before),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("telemetry:after_update", after),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("telemetry:after_delete", after),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", before),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("telemetry:after_row", after),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("telemetry:after_raw", after),
	)
	if err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func slowQueryCallback(threshold time.Duration) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Statement.Context == nil {
			return
		}
		span := trace.SpanFromContext(tx.Statement.Context)
		if !span.IsRecording() {
			return
		}

		span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
		if tx.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
		}
		if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			RecordError(span, tx.Error)
		}

		v, ok := tx.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("threshold_ms", threshold.Milliseconds()),
			))
		}
	}
}
