package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Standalone migration tool. The API server also applies migrations on
// startup; this exists for operating on the schema without booting the server
// (stepping down, forcing a dirty database back to a known version).
func main() {
	msg, err := run(os.Args[1:], defaultDeps())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(msg)
}

type deps struct {
	loadEnv func(...string) error
	getenv  func(string) string
	openDB  func(driverName, dataSourceName string) (*sql.DB, error)
	apply   func(db *sql.DB, o options) (string, error)
}

func defaultDeps() deps {
	return deps{
		loadEnv: godotenv.Load,
		getenv:  os.Getenv,
		openDB:  sql.Open,
		apply:   applyMigrations,
	}
}

type options struct {
	direction string
	steps     int
	force     int
}

type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
}

// Factories are overridden in tests to avoid requiring a real Postgres connection.
var withPostgresInstance = func(db *sql.DB) (migratedb.Driver, error) {
	return postgres.WithInstance(db, &postgres.Config{})
}

var newMigrateWithDB = func(sourceURL string, databaseName string, driver migratedb.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, databaseName, driver)
}

func newMigrator(db *sql.DB) (migrator, error) {
	driver, err := withPostgresInstance(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := newMigrateWithDB("file://db/migrations", "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func parseArgs(args []string) (options, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	var o options
	fs.StringVar(&o.direction, "direction", "up", "Migration direction: up or down")
	fs.IntVar(&o.steps, "steps", 0, "Number of migration steps (0 = all)")
	fs.IntVar(&o.force, "force", -1, "Force set migration version (clears dirty state). Example: -force=1")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch o.direction {
	case "up", "down":
		return o, nil
	default:
		return options{}, fmt.Errorf("invalid direction: %s (must be 'up' or 'down')", o.direction)
	}
}

func run(args []string, d deps) (string, error) {
	o, err := parseArgs(args)
	if err != nil {
		return "", err
	}

	if d.loadEnv != nil {
		_ = d.loadEnv()
	}

	databaseURL := ""
	if d.getenv != nil {
		databaseURL = d.getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if d.openDB == nil {
		return "", fmt.Errorf("openDB dependency is required")
	}
	db, err := d.openDB("postgres", databaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if d.apply == nil {
		return "", fmt.Errorf("apply dependency is required")
	}
	return d.apply(db, o)
}

func applyMigrations(db *sql.DB, o options) (string, error) {
	m, err := newMigrator(db)
	if err != nil {
		return "", err
	}

	// Forcing the version clears dirty state and exits without migrating.
	if o.force >= 0 {
		if err := m.Force(o.force); err != nil {
			return "", fmt.Errorf("failed to force version %d: %w", o.force, err)
		}
		return fmt.Sprintf("Forced database to version %d", o.force), nil
	}

	switch o.direction {
	case "up":
		if o.steps > 0 {
			err = m.Steps(o.steps)
		} else {
			err = m.Up()
		}
	case "down":
		if o.steps > 0 {
			err = m.Steps(-o.steps)
		} else {
			err = m.Down()
		}
	default:
		return "", fmt.Errorf("invalid direction: %s (must be 'up' or 'down')", o.direction)
	}

	if err == migrate.ErrNoChange {
		return "No migrations to apply", nil
	}
	if err != nil {
		return "", fmt.Errorf("migration failed: %w", err)
	}
	return fmt.Sprintf("Migration %s completed successfully", o.direction), nil
}
