package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/migrations"
	"github.com/ekaya-inc/bizget-engine/pkg/config"
)

// RunMigrations applies the embedded migrations for the given database type
// (config.DatabaseTypePostgres or config.DatabaseTypeSQLite).
// It is idempotent and safe to call multiple times - only pending migrations will be executed.
func RunMigrations(db *sql.DB, dbType string, logger *zap.Logger) error {
	var (
		driver migratedb.Driver
		err    error
	)
	switch dbType {
	case config.DatabaseTypePostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case config.DatabaseTypeSQLite:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return fmt.Errorf("unsupported database type for migrations: %q", dbType)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrations.FS, dbType)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbType, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	// Closing m would close db, which the caller still owns; only release the source.
	defer func() {
		if srcErr := source.Close(); srcErr != nil {
			logger.Warn("Failed to close migration source", zap.Error(srcErr))
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No migrations to apply (database up-to-date)", zap.String("type", dbType))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, _ := m.Version()
	logger.Info("Applied migrations successfully",
		zap.String("type", dbType),
		zap.Uint("version", newVersion))
	return nil
}
