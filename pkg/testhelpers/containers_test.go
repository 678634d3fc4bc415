//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestTestDB_MigrationsApplied(t *testing.T) {
	testDB := GetTestDB(t)

	ctx := context.Background()

	for _, table := range []string{"business_profiles", "newsletters", "schema_migrations"} {
		var exists bool
		err := testDB.DB.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)`, table).Scan(&exists)
		if err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("expected table %s to exist", table)
		}
	}
}

func TestTestDB_MigrationVersion(t *testing.T) {
	testDB := GetTestDB(t)

	var version int
	var dirty bool
	err := testDB.DB.QueryRow(context.Background(),
		"SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	if err != nil {
		t.Fatalf("failed to read schema_migrations: %v", err)
	}
	if version != 2 || dirty {
		t.Errorf("expected clean version 2, got version=%d dirty=%v", version, dirty)
	}
}
