// Package postgres provides the PostgreSQL connection pool, schema migrations
// and the FRA record and patta holder repositories built on database/sql with
// the lib/pq driver.
package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // Postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // File source driver
)

var newMigrate = migrate.New

// withMigrate opens a migrate instance for the duration of fn.
func withMigrate(dbURL, source string, fn func(m *migrate.Migrate) error) error {
	m, err := newMigrate(source, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()
	return fn(m)
}

// up applies pending migrations.  Nothing pending is success.
func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// MigrateUp applies all pending migrations from source to the database at
// dbURL.
func MigrateUp(dbURL, source string) error {
	return withMigrate(dbURL, source, func(m *migrate.Migrate) error {
		if err := up(m); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls the schema back by steps migrations.
func MigrateDown(dbURL, source string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0, got %d", steps)
	}
	return withMigrate(dbURL, source, func(m *migrate.Migrate) error {
		err := m.Steps(-steps)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, migrate.ErrNoChange):
			return errors.New("no migrations to roll back")
		default:
			return fmt.Errorf("failed to rollback %d step(s): %w", steps, err)
		}
	})
}

// MigrationStatus reports the applied version and the dirty flag.  An
// unmigrated database is version 0.
func MigrationStatus(dbURL, source string) (version uint, dirty bool, err error) {
	err = withMigrate(dbURL, source, func(m *migrate.Migrate) error {
		var verr error
		version, dirty, verr = m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			version, dirty = 0, false
			return nil
		}
		if verr != nil {
			return fmt.Errorf("failed to get migration version: %w", verr)
		}
		return nil
	})
	return version, dirty, err
}

// ForceMigrationVersion records version without running anything, clearing a
// dirty flag after a failed migration was repaired by hand.
func ForceMigrationVersion(dbURL, source string, version int) error {
	return withMigrate(dbURL, source, func(m *migrate.Migrate) error {
		if err := m.Force(version); err != nil {
			return fmt.Errorf("failed to force version %d: %w", version, err)
		}
		return nil
	})
}

//Personal.AI order the ending
