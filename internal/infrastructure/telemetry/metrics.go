package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics component is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

const defaultExportInterval = time.Minute

// MetricsConfig enables metric export
type MetricsConfig struct {
	Enabled bool
	Collector
	ExportInterval time.Duration
}

// MeterProvider is the metric pipeline
type MeterProvider struct {
	pipeline[*sdkmetric.MeterProvider]
}

// NewMeterProvider pushes metrics to the collector every ExportInterval
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	if !cfg.Enabled {
		return &MeterProvider{disabled[*sdkmetric.MeterProvider]("metrics", logger)}, nil
	}
	if cfg.ExportInterval <= 0 {
		cfg.ExportInterval = defaultExportInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP metric exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.ExportInterval))
	mp, err := NewMeterProviderWithReader(cfg, reader, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Metric export started",
		zap.String("collector_endpoint", cfg.Endpoint),
		zap.Duration("export_interval", cfg.ExportInterval),
	)
	return mp, nil
}

// NewMeterProviderWithReader installs a provider around reader as the global
// meter provider
func NewMeterProviderWithReader(cfg MetricsConfig, reader sdkmetric.Reader, logger *zap.Logger) (*MeterProvider, error) {
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	return &MeterProvider{enabled("metrics", provider, logger)}, nil
}

// Meter returns a meter from this pipeline, or from the global provider when
// metrics are disabled
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if !mp.IsEnabled() {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}
