package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Collector is the OTLP/gRPC destination shared by traces, metrics and logs,
// and the identity the service reports to it
type Collector struct {
	Endpoint       string
	Insecure       bool
	ServiceName    string
	ServiceVersion string
}

func (c Collector) resource() (*resource.Resource, error) {
	version := c.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(c.ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}
	return res, nil
}

// sdkProvider is what the trace, metric and log SDK providers have in common
type sdkProvider interface {
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// pipeline owns one signal's SDK provider. A zero provider means the signal
// is disabled and every call is a no-op.
type pipeline[P sdkProvider] struct {
	signal   string
	provider P
	enabled  bool
	logger   *zap.Logger
}

func disabled[P sdkProvider](signal string, logger *zap.Logger) pipeline[P] {
	logger.Info("Telemetry signal disabled", zap.String("signal", signal))
	return pipeline[P]{signal: signal, logger: logger}
}

func enabled[P sdkProvider](signal string, provider P, logger *zap.Logger) pipeline[P] {
	return pipeline[P]{signal: signal, provider: provider, enabled: true, logger: logger}
}

// IsEnabled reports whether the signal is exported
func (p *pipeline[P]) IsEnabled() bool {
	return p != nil && p.enabled
}

// ForceFlush exports everything buffered so far
func (p *pipeline[P]) ForceFlush(ctx context.Context) error {
	if !p.IsEnabled() {
		return nil
	}
	return p.provider.ForceFlush(ctx)
}

// Shutdown flushes and stops the exporter, bounded by shutdownTimeout
func (p *pipeline[P]) Shutdown(ctx context.Context) error {
	if !p.IsEnabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := p.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown %s provider: %w", p.signal, err)
	}
	p.logger.Info("Telemetry signal stopped", zap.String("signal", p.signal))
	return nil
}
