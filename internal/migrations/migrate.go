// Package migrations applies the runtime_config schema. The SQL files are
// embedded so the server and set-setting run from any directory.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed sql/*.sql
var files embed.FS

const (
	sourceDir       = "sql"
	migrationsTable = "schema_migrations_migrate"
)

var versionPrefix = regexp.MustCompile(`^0*([0-9]+)_`)

// Run applies every pending migration. A database that already has the
// runtime_config table but no migrate metadata is baselined to the latest
// embedded version first.
func Run(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database URL is empty")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	src, err := iofs.New(files, sourceDir)
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	driver, err := pg.WithInstance(db, &pg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := baseline(db, m); err != nil {
		log.Printf("[MIGRATE] Baseline skipped: %v", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Printf("[MIGRATE] runtime_config schema at version %d (dirty=%v)", version, dirty)
	return nil
}

func baseline(db *sql.DB, m *migrate.Migrate) error {
	hasSchema, err := tableExists(db, "runtime_config")
	if err != nil || !hasSchema {
		return err
	}
	hasMeta, err := tableExists(db, migrationsTable)
	if err != nil || hasMeta {
		return err
	}

	latest, err := latestVersion(files, sourceDir)
	if err != nil || latest == 0 {
		return err
	}
	log.Printf("[MIGRATE] Baseline DB to version %d (existing schema present)", latest)
	return m.Force(latest)
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)`, name,
	).Scan(&exists)
	return exists, err
}

// latestVersion returns the highest numeric prefix (000001_...) among the
// migration files in dir.
func latestVersion(fsys fs.FS, dir string) (int, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, err
	}

	latest := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := versionPrefix.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		v, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		latest = max(latest, v)
	}
	return latest, nil
}
