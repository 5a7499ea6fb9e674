package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations brings the schema up to date from the SQL files under
// migrationsPath. A current schema is not an error.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("opening migration source: %w", err)
	}
	defer m.Close()

	switch err := m.Up(); {
	case err == nil:
		ver, _, _ := m.Version()
		slog.Info("schema migrated", "version", ver)
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("schema already current")
	default:
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
