package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending migrations found under basePath for the configured
// driver ("postgres" reads basePath/postgresql, "mysql" reads basePath/mysql).
// Returns nil when the schema is already current.
func RunMigrations(logger *slog.Logger, basePath, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	sourceURL, databaseURL, err := migrationURLs(basePath, driver, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrationURLs maps a driver to its migration folder and to the URL form golang-migrate
// expects. MySQL DSNs (user:pass@tcp(host)/db) gain the mysql:// scheme.
func migrationURLs(basePath, driver, connectionString string) (string, string, error) {
	switch driver {
	case "postgres":
		return "file://" + filepath.ToSlash(filepath.Join(basePath, "postgresql")), connectionString, nil
	case "mysql":
		databaseURL := connectionString
		if !strings.HasPrefix(databaseURL, "mysql://") {
			databaseURL = "mysql://" + databaseURL
		}
		return "file://" + filepath.ToSlash(filepath.Join(basePath, "mysql")), databaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}
