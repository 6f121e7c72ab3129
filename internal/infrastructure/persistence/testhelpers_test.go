package persistence

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"

	"github.com/bookstore/backend/internal/infrastructure/persistence/models"
	"github.com/bookstore/backend/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB returns a migrated in-memory SQLite database private to t.
// A single connection is used so transactions run one after another.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// OpenSchemaTestDB builds the tables from the embedded *.up.sql files rather
// than from the models, so constraints that exist only in SQL are enforced.
func OpenSchemaTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := openSQLite(t)
	files, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	sort.Strings(files)

	for _, name := range files {
		body, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		stmt := strings.ReplaceAll(string(body), "NOW()", "CURRENT_TIMESTAMP")
		require.NoError(t, db.Exec(stmt).Error, name)
	}
	return db
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
