// Package migration applies the versioned schema with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/bookstore/backend/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator runs schema migrations against PostgreSQL
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator over the migrations embedded in the binary
func New(db *sql.DB, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("embedded migrations: %w", err)
	}
	return newMigrator(db, "iofs", src, logger)
}

// NewFromFS creates a Migrator over migrations found in fsys, e.g. os.DirFS
// during development
func NewFromFS(db *sql.DB, fsys fs.FS, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("migrations source: %w", err)
	}
	return newMigrator(db, "iofs", src, logger)
}

func newMigrator(db *sql.DB, sourceName string, src source.Driver, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance(sourceName, src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.run("up", m.migrate.Up)
}

// Down rolls every migration back
func (m *Migrator) Down() error {
	return m.run("down", m.migrate.Down)
}

// Steps applies n migrations; negative n rolls back
func (m *Migrator) Steps(n int) error {
	return m.run(fmt.Sprintf("step %d", n), func() error { return m.migrate.Steps(n) })
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.run(fmt.Sprintf("goto %d", version), func() error { return m.migrate.Migrate(version) })
}

func (m *Migrator) run(op string, fn func() error) error {
	m.logger.Info("Migrating schema", zap.String("op", op))

	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema unchanged", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Schema migrated",
		zap.String("op", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version returns the applied version; 0 means nothing is applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied without running anything. It is the way
// out of a dirty state after a failed migration was fixed by hand.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force schema version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table in the database
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping every table in the schema")
	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}
