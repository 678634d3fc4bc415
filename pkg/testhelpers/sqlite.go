package testhelpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/config"
	"github.com/ekaya-inc/bizget-engine/pkg/database"
)

// NewSQLiteDB returns a migrated SQLite database in a per-test temp directory.
// It needs no Docker and runs in short mode.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.RunMigrations(db, config.DatabaseTypeSQLite, zap.NewNop()); err != nil {
		t.Fatalf("failed to run sqlite migrations: %v", err)
	}
	return db
}
