package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of business spans
const TracerName = "bookstore-backend"

// Attribute keys set on business spans
const (
	AttrOrderID       = attribute.Key("bookstore.order.id")
	AttrOrderStatus   = attribute.Key("bookstore.order.status")
	AttrOrderType     = attribute.Key("bookstore.order.type")
	AttrBookID        = attribute.Key("bookstore.book.id")
	AttrQuantity      = attribute.Key("bookstore.quantity")
	AttrPromotionCode = attribute.Key("bookstore.promotion.code")
)

// StartOperation opens an internal span named "<service>.<method>" on the
// global provider, so it follows whatever provider main installed. The caller
// ends it.
func StartOperation(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(present(attrs)...),
	)
}

// Annotate adds attributes to span, dropping empty strings so optional
// fields like a missing promotion code stay off the span
func Annotate(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(present(attrs)...)
}

// RecordError marks span failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SpanIDs returns the hex trace and span IDs active in ctx, or empty strings
func SpanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	if sc.HasSpanID() {
		spanID = sc.SpanID().String()
	}
	return traceID, spanID
}

func present(attrs []attribute.KeyValue) []attribute.KeyValue {
	out := attrs[:0:0]
	for _, kv := range attrs {
		if kv.Value.Type() == attribute.STRING && kv.Value.AsString() == "" {
			continue
		}
		out = append(out, kv)
	}
	return out
}
