package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProfileLabels_Pairs(t *testing.T) {
	labels := ProfileLabels{
		ProfilingLabelOrderType: "ONLINE",
		"user_id":               "u-1",
		ProfilingLabelMethod:    "",
		ProfilingLabelRoute:     strings.Repeat("a", MaxLabelValueLength+10),
	}

	assert.Equal(t, []string{"order_type", "ONLINE", "route", strings.Repeat("a", MaxLabelValueLength)}, labels.pairs())
	assert.Empty(t, ProfileLabels(nil).pairs())
}

func TestProfileLabels_Do(t *testing.T) {
	base := OperationLabels("checkout")
	labels := base.With(ProfilingLabelOrderType, "ONLINE").With("order_id", "should-not-appear")

	called := false
	labels.Do(context.Background(), func(ctx context.Context) {
		called = true
		op, ok := pprof.Label(ctx, ProfilingLabelOperation)
		assert.True(t, ok)
		assert.Equal(t, "checkout", op)

		typ, _ := pprof.Label(ctx, ProfilingLabelOrderType)
		assert.Equal(t, "ONLINE", typ)

		_, ok = pprof.Label(ctx, "order_id")
		assert.False(t, ok)
	})
	assert.True(t, called)
	assert.Len(t, base, 1, "With copies")
}

func TestProfileLabels_DoUnlabelled(t *testing.T) {
	called := false
	RouteLabels("", "").Do(context.Background(), func(ctx context.Context) {
		called = true
		_, ok := pprof.Label(ctx, ProfilingLabelRoute)
		assert.False(t, ok)
	})
	assert.True(t, called)
}

func TestRouteLabels(t *testing.T) {
	assert.Equal(t, ProfileLabels{"route": "/api/v1/orders", "method": "POST"}, RouteLabels("/api/v1/orders", "POST"))
}

func TestProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	assert.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "bookstore"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	assert.ErrorContains(t, err, "application name")
}
