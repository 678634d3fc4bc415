package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/config"
)

func TestOpenSQLite_MigratesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "data.db")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db, config.DatabaseTypeSQLite, zap.NewNop()))
	require.NoError(t, RunMigrations(db, config.DatabaseTypeSQLite, zap.NewNop()), "second run must be a no-op")

	for _, table := range []string{"business_profiles", "newsletters"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var mode string
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestRunMigrations_UnsupportedType(t *testing.T) {
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer db.Close()

	err = RunMigrations(db, "mysql", zap.NewNop())
	assert.Error(t, err)
}

func TestSQLiteTimeLayout_SortsLexically(t *testing.T) {
	// Fixed width: a whole second must sort before the same second plus a fraction.
	a := "2025-01-06T09:00:00.000000000Z"
	b := "2025-01-06T09:00:00.100000000Z"
	assert.Less(t, a, b)
	assert.Len(t, SQLiteTimeLayout, len(a))
}
