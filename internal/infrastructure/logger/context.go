package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// WithContext stores logger in ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx with the active trace and span
// IDs attached, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logger = logger.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return logger
}

// WithRequestID records the request ID in ctx and on its logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	logger = logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, logger), logger
}

// WithUserID records the authenticated user in ctx and on its logger
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, userIDKey, userID)
	logger = logger.With(zap.String("user_id", userID))
	return WithContext(ctx, logger), logger
}

// GetRequestID returns the request ID in ctx, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetUserID returns the user ID in ctx, or ""
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
