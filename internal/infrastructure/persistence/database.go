package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const connectTimeout = 5 * time.Second

// Database owns the GORM handle shared by every repository
type Database struct {
	DB  *gorm.DB
	sql *sql.DB
}

// NewDatabase opens the PostgreSQL pool and logs SQL through zapLogger.
// Statements run outside GORM's implicit transactions; the transaction scope
// opens explicit ones where stock is touched.
func NewDatabase(cfg *config.DatabaseConfig, zapLogger *zap.Logger) (*Database, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.NewSQLLogger(zapLogger, logger.SQLLogConfig{
			Level:         cfg.LogLevel,
			SlowThreshold: cfg.SlowThreshold,
		}),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d, err := wrap(db)
	if err != nil {
		return nil, err
	}
	d.sql.SetMaxOpenConns(cfg.MaxOpenConns)
	d.sql.SetMaxIdleConns(cfg.MaxIdleConns)
	d.sql.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	d.sql.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		_ = d.sql.Close()
		return nil, fmt.Errorf("ping %s@%s:%d/%s: %w", cfg.User, cfg.Host, cfg.Port, cfg.DBName, err)
	}

	zapLogger.Info("Database pool ready",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return d, nil
}

func wrap(db *gorm.DB) (*Database, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return &Database{DB: db, sql: sqlDB}, nil
}

// Close releases every pooled connection
func (d *Database) Close() error {
	return d.sql.Close()
}

// Ping satisfies the readiness probe
func (d *Database) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// PoolStats feeds the connection pool gauges
func (d *Database) PoolStats() sql.DBStats {
	return d.sql.Stats()
}
