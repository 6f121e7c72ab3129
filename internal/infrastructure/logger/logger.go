// Package logger builds the zap loggers used across the service and the
// adapters that plug them into gin and GORM.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	Output string // stdout, stderr, or a file path
}

// DefaultConfig is a colored console logger at info level
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "console", Output: "stdout"}
}

// New creates a logger for cfg. An unwritable file output is an error.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	writer, err := openWriter(cfg.Output)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(newEncoder(cfg.Format), writer, ParseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// NewForEnvironment returns JSON logs in production and console logs elsewhere
func NewForEnvironment(env string) (*zap.Logger, error) {
	cfg := DefaultConfig()
	if env == "production" {
		cfg.Format = "json"
	}
	return New(cfg)
}

// ParseLevel maps a level name to zap, defaulting to info
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		if strings.EqualFold(level, "warning") {
			return zapcore.WarnLevel
		}
		return zapcore.InfoLevel
	}
	return l
}

func newEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	if format != "console" {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

// openWriter accepts stdout, stderr or a file path; files are opened for append
func openWriter(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		output = "stdout"
	case "stderr":
		output = "stderr"
	}
	ws, _, err := zap.Open(output)
	if err != nil {
		return nil, fmt.Errorf("open log output %s: %w", output, err)
	}
	return ws, nil
}

// Sync flushes buffered entries, ignoring the error stdout returns on some
// platforms
func Sync(logger *zap.Logger) error {
	err := logger.Sync()
	if err != nil && strings.Contains(err.Error(), "/dev/stdout") {
		return nil
	}
	return err
}
