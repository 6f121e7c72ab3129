// Package telemetry wires OpenTelemetry traces, metrics and logs plus
// Pyroscope continuous profiling into the service.
package telemetry

import (
	"context"
	"fmt"
	"sync"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Config enables span export
type Config struct {
	Enabled bool
	Collector
	// SamplingRatio applies to root spans; children follow their parent
	SamplingRatio float64
}

// TracerProvider is the trace pipeline
type TracerProvider struct {
	pipeline[*sdktrace.TracerProvider]

	mu           sync.Mutex
	spanProfiles bool
}

// NewTracerProvider batches spans to the collector. Disabled tracing leaves
// the global no-op provider in place.
func NewTracerProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*TracerProvider, error) {
	if !cfg.Enabled {
		return &TracerProvider{pipeline: disabled[*sdktrace.TracerProvider]("traces", logger)}, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP trace exporter: %w", err)
	}

	tp, err := NewTracerProviderWithExporter(cfg, sdktrace.NewBatchSpanProcessor(exporter), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Trace export started",
		zap.String("collector_endpoint", cfg.Endpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
	)
	return tp, nil
}

// NewTracerProviderWithExporter installs a provider around processor as the
// global tracer provider, with W3C trace-context and baggage propagation
func NewTracerProviderWithExporter(cfg Config, processor sdktrace.SpanProcessor, logger *zap.Logger) (*TracerProvider, error) {
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	sampler := sdktrace.TraceIDRatioBased(cfg.SamplingRatio)
	switch {
	case cfg.SamplingRatio >= 1:
		sampler = sdktrace.AlwaysSample()
	case cfg.SamplingRatio <= 0:
		sampler = sdktrace.NeverSample()
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &TracerProvider{pipeline: enabled("traces", provider, logger)}, nil
}

// EnableSpanProfiles wraps the global provider so CPU samples carry span IDs
// and Pyroscope can show the profile of a single span. Start the profiler
// first.
func (tp *TracerProvider) EnableSpanProfiles() {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if !tp.IsEnabled() || tp.spanProfiles {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.provider))
	tp.spanProfiles = true
	tp.logger.Info("Span profiles enabled")
}

// SpanProfilesEnabled reports whether EnableSpanProfiles took effect
func (tp *TracerProvider) SpanProfilesEnabled() bool {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.spanProfiles
}
