package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig enables shipping log records to the collector
type LogsConfig struct {
	Enabled bool
	Collector
}

// LoggerProvider is the log pipeline behind the otelzap bridge
type LoggerProvider struct {
	pipeline[*sdklog.LoggerProvider]
	scope string
}

// NewLoggerProvider batches log records to the collector. Disabled, it
// hands out cores that discard everything.
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger) (*LoggerProvider, error) {
	if !cfg.Enabled {
		return &LoggerProvider{pipeline: disabled[*sdklog.LoggerProvider]("logs", logger)}, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP log exporter: %w", err)
	}

	lp, err := NewLoggerProviderWithProcessor(cfg, sdklog.NewBatchProcessor(exporter), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Log export started", zap.String("collector_endpoint", cfg.Endpoint))
	return lp, nil
}

// NewLoggerProviderWithProcessor installs a provider around processor as the
// global logger provider
func NewLoggerProviderWithProcessor(cfg LogsConfig, processor sdklog.Processor, logger *zap.Logger) (*LoggerProvider, error) {
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}
	provider := sdklog.NewLoggerProvider(sdklog.WithResource(res), sdklog.WithProcessor(processor))
	global.SetLoggerProvider(provider)
	return &LoggerProvider{pipeline: enabled("logs", provider, logger), scope: cfg.ServiceName}, nil
}

// OTELCore returns a zap core that forwards entries at or above level to the
// provider, or a no-op core when logs are disabled
func (lp *LoggerProvider) OTELCore(level zapcore.Level) zapcore.Core {
	if !lp.IsEnabled() {
		return zapcore.NewNopCore()
	}
	core := otelzap.NewCore(lp.scope, otelzap.WithLoggerProvider(lp.provider))
	return &levelFilterCore{Core: core, minLevel: level}
}

// Bridge returns a logger that writes to base and to the collector
func (lp *LoggerProvider) Bridge(base *zap.Logger, level zapcore.Level) *zap.Logger {
	if !lp.IsEnabled() {
		return base
	}
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, lp.OTELCore(level))
	}))
}

// levelFilterCore drops entries below minLevel; the otelzap core itself
// accepts every level
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
