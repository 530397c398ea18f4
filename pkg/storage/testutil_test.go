package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB opens a fresh in-memory SQLite instance.
// The pool is pinned to one connection; every new SQLite connection to
// ":memory:" would otherwise see its own empty database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err, "open in-memory sqlite")
	_, err = ConfigurePool(db, MaxOpenConns(1), MaxIdleConns(1))
	require.NoError(t, err, "configure pool")

	sqlDB, err := db.DB()
	require.NoError(t, err, "get underlying sql.DB")
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// newTestRecorder returns a migrated recorder backed by openTestDB.
func newTestRecorder(t *testing.T) *GormRecorder {
	t.Helper()
	rec := NewGormRecorder(openTestDB(t))
	require.NoError(t, rec.Migrate(context.Background()))
	return rec
}
