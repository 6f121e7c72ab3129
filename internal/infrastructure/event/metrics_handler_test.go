package event

import (
	"context"
	"testing"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetricsHandler_ThroughBus(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := telemetry.NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	bus := NewInMemoryEventBus(nil)
	h := NewMetricsHandler(metrics)
	bus.Subscribe(h, h.EventTypes()...)

	require.NoError(t, bus.Publish(context.Background(),
		stockEvent(t, -2, 10, inventory.ReasonOnlineSale),
		stockEvent(t, 4, 8, inventory.ReasonOrderCancellation),
	))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var movements metricdata.Sum[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "bookstore_stock_movements_total" {
				movements = m.Data.(metricdata.Sum[int64])
			}
		}
	}
	require.Len(t, movements.DataPoints, 2)

	byReason := map[string]int64{}
	for _, dp := range movements.DataPoints {
		reason, _ := dp.Attributes.Value(attribute.Key("reason"))
		byReason[reason.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"ONLINE_SALE": 1, "ORDER_CANCELLATION": 1}, byReason)
}
