package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowSQL = 200 * time.Millisecond

// SQLLogConfig controls what GORM writes to the service log
type SQLLogConfig struct {
	// Level is silent, error, warn, info or debug; info and debug also
	// log every statement at debug
	Level string
	// SlowThreshold marks statements slower than this; zero means 200ms
	SlowThreshold time.Duration
}

// SQLLogger routes GORM's output through zap, tagging each statement with
// the request and user found in ctx
type SQLLogger struct {
	log  *zap.Logger
	mode gormlogger.LogLevel
	slow time.Duration
}

// NewSQLLogger creates the GORM logger for cfg
func NewSQLLogger(base *zap.Logger, cfg SQLLogConfig) *SQLLogger {
	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = defaultSlowSQL
	}
	return &SQLLogger{log: base.Named("gorm"), mode: sqlLogMode(cfg.Level), slow: slow}
}

func sqlLogMode(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	}
	return gormlogger.Warn
}

// LogMode implements gormlogger.Interface
func (l *SQLLogger) LogMode(mode gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.mode = mode
	return &c
}

func (l *SQLLogger) Info(_ context.Context, msg string, args ...any) {
	l.printf(gormlogger.Info, zapcore.InfoLevel, msg, args)
}

func (l *SQLLogger) Warn(_ context.Context, msg string, args ...any) {
	l.printf(gormlogger.Warn, zapcore.WarnLevel, msg, args)
}

func (l *SQLLogger) Error(_ context.Context, msg string, args ...any) {
	l.printf(gormlogger.Error, zapcore.ErrorLevel, msg, args)
}

func (l *SQLLogger) printf(need gormlogger.LogLevel, lvl zapcore.Level, msg string, args []any) {
	if l.mode >= need {
		l.log.Sugar().Logf(lvl, msg, args...)
	}
}

// Trace implements gormlogger.Interface. ErrRecordNotFound is an expected
// outcome for lookups and is not logged as an error.
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.mode <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl = zapcore.DebugLevel
		msg = "SQL"
	)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	switch {
	case failed && l.mode >= gormlogger.Error:
		lvl, msg = zapcore.ErrorLevel, "SQL error"
	case elapsed > l.slow && l.mode >= gormlogger.Warn:
		lvl, msg = zapcore.WarnLevel, "Slow SQL"
	case l.mode < gormlogger.Info:
		return
	}

	ce := l.log.Check(lvl, msg)
	if ce == nil {
		return
	}
	sql, rows := fc()
	fields := []zap.Field{zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed)}
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetUserID(ctx); id != "" {
		fields = append(fields, zap.String("user_id", id))
	}
	if lvl == zapcore.ErrorLevel {
		fields = append(fields, zap.Error(err))
	}
	ce.Write(fields...)
}
