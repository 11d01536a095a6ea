package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// RunMigrations applies every pending migration from migrationsPath.
func RunMigrations(logger zerolog.Logger, databaseURL, migrationsPath string) error {
	return withMigrator(logger, databaseURL, migrationsPath, "up", func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// RunMigrationsDown rolls back the most recent migration.
func RunMigrationsDown(logger zerolog.Logger, databaseURL, migrationsPath string) error {
	return withMigrator(logger, databaseURL, migrationsPath, "down", func(m *migrate.Migrate) error {
		return m.Steps(-1)
	})
}

func withMigrator(logger zerolog.Logger, databaseURL, migrationsPath, direction string, step func(*migrate.Migrate) error) error {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migrations at %s: %w", migrationsPath, err)
	}
	defer m.Close()

	log := logger.With().Str("component", "migrator").Str("direction", direction).Logger()

	if err := step(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("schema already current")
			return nil
		}
		return fmt.Errorf("failed to migrate %s: %w", direction, err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info().Msg("schema empty")
	case err != nil:
		log.Warn().Err(err).Msg("migrated, but could not read schema version")
	default:
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema migrated")
	}

	return nil
}
