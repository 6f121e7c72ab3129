package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/bookstore/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing_RecordsRouteSpanAndMetrics(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	cfg := DefaultTracingConfig()
	cfg.TracerProvider = tp
	cfg.MeterProvider = mp

	r := gin.New()
	r.Use(RequestID(), Tracing(cfg), SpanAttributes())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/42", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/orders/:id", spans[0].Name())
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), w.Header().Get(TraceIDHeader))

	var hasRequestID bool
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "request_id" {
			hasRequestID = kv.Value.AsString() != ""
		}
	}
	assert.True(t, hasRequestID)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	assert.NotEmpty(t, rm.ScopeMetrics)
}

func TestTracing_Disabled(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := gin.New()
	r.Use(Tracing(TracingConfig{Enabled: false, TracerProvider: tp}))
	r.GET("/books", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Empty(t, sr.Ended())
}

func TestProfiling_LabelsRoute(t *testing.T) {
	r := gin.New()
	r.Use(Profiling(ProfilingConfig{Enabled: true, SkipPaths: []string{"/health"}}))

	var route, method string
	var healthLabelled bool
	r.GET("/api/v1/books/:id", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
		method, _ = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelMethod)
	})
	r.GET("/health", func(c *gin.Context) {
		_, healthLabelled = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/books/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "/api/v1/books/:id", route)
	assert.Equal(t, http.MethodGet, method)
	assert.False(t, healthLabelled)
}
