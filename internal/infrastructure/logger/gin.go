package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ginLoggerKey = "logger"

// GinMiddleware writes one access entry per request and stores a request
// scoped logger on both the gin and the request context. RequestID must run
// before it.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		scoped := base.With(zap.String("method", c.Request.Method), zap.String("path", c.Request.URL.Path))
		ctx, reqLogger := WithRequestID(c.Request.Context(), scoped, c.GetString("request_id"))
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginLoggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		ce := FromContext(c.Request.Context()).Check(accessLevel(status), "Request served")
		if ce == nil {
			return
		}
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(started)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}
		ce.Write(fields...)
	}
}

func accessLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// Recovery answers a panicking handler with a 500 envelope and logs the stack
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString("request_id")
			base.Error("Panic recovered",
				zap.String("request_id", requestID),
				zap.String("route", c.FullPath()),
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"code": "INTERNAL_ERROR", "message": "internal server error", "request_id": requestID},
			})
		}()
		c.Next()
	}
}

// GetGinLogger returns the logger GinMiddleware stored, or a no-op logger
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Value(ginLoggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
