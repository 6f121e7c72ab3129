package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/bookstore/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func zapNop() *zap.Logger { return zap.NewNop() }

// recordingProcessor keeps every emitted log record body
type recordingProcessor struct {
	mu     sync.Mutex
	bodies []string
}

func (p *recordingProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }

func (p *recordingProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, r.Body().AsString())
	return nil
}

func (p *recordingProcessor) Shutdown(context.Context) error   { return nil }
func (p *recordingProcessor) ForceFlush(context.Context) error { return nil }

func (p *recordingProcessor) Bodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.bodies...)
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{}, zapNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	base := zapNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
	assert.False(t, lp.OTELCore(zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_BridgeFiltersByLevel(t *testing.T) {
	proc := &recordingProcessor{}
	lp, err := telemetry.NewLoggerProviderWithProcessor(telemetry.LogsConfig{Collector: telemetry.Collector{ServiceName: "bookstore-test"}}, proc, zapNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	core, local := observer.New(zapcore.DebugLevel)
	logger := lp.Bridge(zap.New(core), zapcore.WarnLevel)

	logger.Debug("cart loaded")
	logger.Info("order placed")
	logger.Warn("book stock is low")
	logger.Error("checkout failed")

	assert.Equal(t, 4, local.Len(), "local core keeps its own level")
	assert.Equal(t, []string{"book stock is low", "checkout failed"}, proc.Bodies())
}

func TestLoggerProvider_CoreWithFieldsKeepsLevel(t *testing.T) {
	proc := &recordingProcessor{}
	lp, err := telemetry.NewLoggerProviderWithProcessor(telemetry.LogsConfig{Collector: telemetry.Collector{ServiceName: "bookstore-test"}}, proc, zapNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	logger := zap.New(lp.OTELCore(zapcore.ErrorLevel)).With(zap.String("component", "checkout"))
	logger.Warn("dropped")
	logger.Error("kept")

	assert.Equal(t, []string{"kept"}, proc.Bodies())
}
