package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics counts orders and stock movements.
type BusinessMetrics struct {
	ordersPlaced   metric.Int64Counter
	orderAmount    metric.Float64Counter
	discountAmount metric.Float64Counter
	statusChanges  metric.Int64Counter
	stockMovements metric.Int64Counter
	stockUnits     metric.Int64Counter
	ledgerDrift    metric.Int64Counter
}

// NewBusinessMetrics registers the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		bm  BusinessMetrics
		err error
	)
	if bm.ordersPlaced, err = meter.Int64Counter("bookstore_orders_placed_total",
		metric.WithDescription("Orders placed by order type"),
		metric.WithUnit("{order}"),
	); err != nil {
		return nil, err
	}
	if bm.orderAmount, err = meter.Float64Counter("bookstore_order_amount_total",
		metric.WithDescription("Sum of order totals after discount"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, err
	}
	if bm.discountAmount, err = meter.Float64Counter("bookstore_order_discount_total",
		metric.WithDescription("Sum of promotion discounts granted"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, err
	}
	if bm.statusChanges, err = meter.Int64Counter("bookstore_order_status_changes_total",
		metric.WithDescription("Order status transitions"),
		metric.WithUnit("{transition}"),
	); err != nil {
		return nil, err
	}
	if bm.stockMovements, err = meter.Int64Counter("bookstore_stock_movements_total",
		metric.WithDescription("Inventory ledger entries by reason"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}
	if bm.stockUnits, err = meter.Int64Counter("bookstore_stock_units_total",
		metric.WithDescription("Absolute units moved by reason and direction"),
		metric.WithUnit("{unit}"),
	); err != nil {
		return nil, err
	}
	if bm.ledgerDrift, err = meter.Int64Counter("bookstore_ledger_mismatches_total",
		metric.WithDescription("Books found with a stock counter that disagrees with the ledger"),
		metric.WithUnit("{book}"),
	); err != nil {
		return nil, err
	}
	return &bm, nil
}

// RecordOrderPlaced counts one order and adds its amounts
func (m *BusinessMetrics) RecordOrderPlaced(ctx context.Context, orderType string, total, discount decimal.Decimal, withPromotion bool) {
	attrs := metric.WithAttributes(
		attribute.String("order_type", orderType),
		attribute.Bool("promotion", withPromotion),
	)
	m.ordersPlaced.Add(ctx, 1, attrs)
	m.orderAmount.Add(ctx, total.InexactFloat64(), attrs)
	if discount.IsPositive() {
		m.discountAmount.Add(ctx, discount.InexactFloat64(), attrs)
	}
}

// RecordStatusChange counts one order transition
func (m *BusinessMetrics) RecordStatusChange(ctx context.Context, from, to string) {
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordStockMovement counts one ledger entry and its units
func (m *BusinessMetrics) RecordStockMovement(ctx context.Context, reason string, change int) {
	direction := "in"
	units := int64(change)
	if change < 0 {
		direction = "out"
		units = -units
	}
	attrs := metric.WithAttributes(
		attribute.String("reason", reason),
		attribute.String("direction", direction),
	)
	m.stockMovements.Add(ctx, 1, attrs)
	m.stockUnits.Add(ctx, units, attrs)
}

// RecordLedgerMismatch counts one book whose counter drifted from its ledger
func (m *BusinessMetrics) RecordLedgerMismatch(ctx context.Context, _ uuid.UUID, drift int) {
	direction := "surplus"
	if drift < 0 {
		direction = "shortfall"
	}
	m.ledgerDrift.Add(ctx, 1, metric.WithAttributes(attribute.String("direction", direction)))
}
