package telemetry

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PoolStatsFunc samples the connection pool
type PoolStatsFunc func() sql.DBStats

// RegisterPoolMetrics exports the database pool as observable instruments.
// The pool is sampled once per collection.
func RegisterPoolMetrics(meter metric.Meter, stats PoolStatsFunc) error {
	if meter == nil {
		return ErrMeterNil
	}

	conns, err := meter.Int64ObservableGauge("bookstore_db_connections",
		metric.WithDescription("Pooled database connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("bookstore_db_connection_waits_total",
		metric.WithDescription("Times a caller waited for a free connection"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return err
	}
	waitTime, err := meter.Float64ObservableCounter("bookstore_db_connection_wait_seconds_total",
		metric.WithDescription("Time spent waiting for a free connection"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	inUse := metric.WithAttributes(attribute.String("state", "in_use"))
	idle := metric.WithAttributes(attribute.String("state", "idle"))
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(conns, int64(s.InUse), inUse)
		o.ObserveInt64(conns, int64(s.Idle), idle)
		o.ObserveInt64(waits, s.WaitCount)
		o.ObserveFloat64(waitTime, s.WaitDuration.Seconds())
		return nil
	}, conns, waits, waitTime)
	return err
}
