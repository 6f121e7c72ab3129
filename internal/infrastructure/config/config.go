// Package config loads service settings from config.toml and BOOKSTORE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BOOKSTORE_DATABASE_PASSWORD
const EnvPrefix = "BOOKSTORE"

// Config is the full service configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Order     OrderConfig     `mapstructure:"order"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// LogConfig selects level (debug..error), format (json or console) and
// output (stdout, stderr or a file path)
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	// LogLevel is the GORM statement log level
	LogLevel      string        `mapstructure:"log_level"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

// DSN renders a postgres:// URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisConfig points at the idempotency store; disabled means in-process
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// JWTConfig verifies access tokens issued by the identity service
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`

	// Order submissions allowed per user per window
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

type OrderConfig struct {
	// IdempotencyTTL is how long an Idempotency-Key blocks resubmission
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

type InventoryConfig struct {
	// LowStockThreshold warns when a sale leaves this many units or fewer; 0 disables
	LowStockThreshold int `mapstructure:"low_stock_threshold"`
	// AuditInterval is how often every book is reconciled against its ledger; 0 disables
	AuditInterval time.Duration `mapstructure:"audit_interval"`
	AuditWorkers  int           `mapstructure:"audit_workers"`
}

// TelemetryConfig covers OTLP export and Pyroscope profiling
type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"`
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"`
	Insecure          bool    `mapstructure:"insecure"`
	MetricsEnabled    bool    `mapstructure:"metrics_enabled"`
	LogsEnabled       bool    `mapstructure:"logs_enabled"`

	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`

	ProfilingEnabled  bool   `mapstructure:"profiling_enabled"`
	PyroscopeEndpoint string `mapstructure:"pyroscope_endpoint"`
}

// defaults registers every key so that environment overrides reach Unmarshal
// even when no config file mentions the key
var defaults = map[string]any{
	"app.name": "bookstore-backend",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "bookstore",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  "1h",
	"database.conn_max_idle_time": "30m",
	"database.log_level":          "warn",
	"database.slow_threshold":     "200ms",

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret": "",
	"jwt.issuer": "bookstore-backend",

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":        "15s",
	"http.write_timeout":       "15s",
	"http.idle_timeout":        "60s",
	"http.max_header_bytes":    1 << 20,
	"http.max_body_size":       1 << 20,
	"http.cors_allow_origins":  []string{},
	"http.cors_allow_methods":  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	"http.cors_allow_headers":  []string{"Content-Type", "Authorization", "X-Request-ID", "Idempotency-Key"},
	"http.trusted_proxies":     []string{},
	"http.rate_limit_enabled":  true,
	"http.rate_limit_requests": 10,
	"http.rate_limit_window":   "1m",

	"order.idempotency_ttl": "24h",

	"inventory.low_stock_threshold": 5,
	"inventory.audit_interval":      "1h",
	"inventory.audit_workers":       4,

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "bookstore-backend",
	"telemetry.insecure":                false,
	"telemetry.metrics_enabled":         false,
	"telemetry.logs_enabled":            false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": "200ms",
	"telemetry.profiling_enabled":       false,
	"telemetry.pyroscope_endpoint":      "http://localhost:4040",
}

// Load reads config.toml from ., ./config or /app, then applies BOOKSTORE_*
// overrides. A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, dir := range []string{".", "./config", "/app"} {
		v.AddConfigPath(dir)
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// Pool sizes of zero would leave database/sql unbounded
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaults["database.max_open_conns"].(int)
	}
	if cfg.Inventory.AuditWorkers <= 0 {
		cfg.Inventory.AuditWorkers = 1
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	db := c.Database
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)
	check(c.Inventory.LowStockThreshold >= 0, "inventory.low_stock_threshold cannot be negative")
	check(c.Inventory.AuditInterval >= 0, "inventory.audit_interval cannot be negative")
	check(c.Order.IdempotencyTTL >= 0, "order.idempotency_ttl cannot be negative")
	check(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0 and 1, got %g", c.Telemetry.SamplingRatio)
	check(!c.HTTP.RateLimitEnabled || (c.HTTP.RateLimitRequests > 0 && c.HTTP.RateLimitWindow > 0),
		"http.rate_limit_requests and http.rate_limit_window must be positive when rate limiting is enabled")

	if c.App.Env == "production" {
		check(c.JWT.Secret != "", "jwt.secret is required in production")
		check(c.JWT.Secret == "" || len(c.JWT.Secret) >= 32, "jwt.secret must be at least 32 characters in production")
		check(db.Password != "", "database.password is required in production")
		check(db.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
		for _, origin := range c.HTTP.CORSAllowOrigins {
			check(origin != "*", "http.cors_allow_origins cannot contain '*' in production")
		}
		check(!c.Telemetry.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production, statements would carry customer data into traces")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
