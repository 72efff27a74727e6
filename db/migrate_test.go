package main

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
)

func TestParseArgs_Defaults(t *testing.T) {
	o, err := parseArgs(nil)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if o.direction != "up" {
		t.Fatalf("expected direction up, got %q", o.direction)
	}
	if o.steps != 0 {
		t.Fatalf("expected steps 0, got %d", o.steps)
	}
	if o.force != -1 {
		t.Fatalf("expected force -1, got %d", o.force)
	}
}

func TestParseArgs_InvalidDirection(t *testing.T) {
	_, err := parseArgs([]string{"-direction", "sideways"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRun_MissingDatabaseURL(t *testing.T) {
	_, err := run(nil, deps{
		loadEnv: func(...string) error { return nil },
		getenv:  func(string) string { return "" },
		openDB: func(string, string) (*sql.DB, error) {
			t.Fatalf("openDB should not be called")
			return nil, nil
		},
		apply: func(*sql.DB, options) (string, error) {
			t.Fatalf("apply should not be called")
			return "", nil
		},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRun_PassesOptionsThrough(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	var got options
	msg, err := run([]string{"-direction", "down", "-steps", "2"}, deps{
		loadEnv: func(...string) error { return nil },
		getenv: func(k string) string {
			if k == "DATABASE_URL" {
				return "postgres://example"
			}
			return ""
		},
		openDB: func(string, string) (*sql.DB, error) { return db, nil },
		apply: func(_ *sql.DB, o options) (string, error) {
			got = o
			return "ok", nil
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.direction != "down" || got.steps != 2 {
		t.Fatalf("expected apply called with down/2, got %q/%d", got.direction, got.steps)
	}
	if msg != "ok" {
		t.Fatalf("unexpected msg: %q", msg)
	}
}

func TestRun_OpenDBError(t *testing.T) {
	_, err := run([]string{"-direction", "up"}, deps{
		loadEnv: func(...string) error { return nil },
		getenv: func(k string) string {
			if k == "DATABASE_URL" {
				return "postgres://example"
			}
			return ""
		},
		openDB: func(string, string) (*sql.DB, error) { return nil, sql.ErrConnDone },
		apply: func(*sql.DB, options) (string, error) {
			t.Fatalf("apply should not be called")
			return "", nil
		},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

type fakeMigrator struct {
	upCalls    int
	downCalls  int
	stepsCalls []int
	forceCalls []int
	upErr      error
}

func (f *fakeMigrator) Up() error         { f.upCalls++; return f.upErr }
func (f *fakeMigrator) Down() error       { f.downCalls++; return nil }
func (f *fakeMigrator) Steps(n int) error { f.stepsCalls = append(f.stepsCalls, n); return nil }
func (f *fakeMigrator) Force(v int) error { f.forceCalls = append(f.forceCalls, v); return nil }

func withFakeMigrator(t *testing.T, fm *fakeMigrator) {
	t.Helper()
	prevWith := withPostgresInstance
	prevNewMigrate := newMigrateWithDB
	t.Cleanup(func() {
		withPostgresInstance = prevWith
		newMigrateWithDB = prevNewMigrate
	})
	withPostgresInstance = func(_ *sql.DB) (migratedb.Driver, error) { return nil, nil }
	newMigrateWithDB = func(string, string, migratedb.Driver) (migrator, error) { return fm, nil }
}

func TestApplyMigrations_Up(t *testing.T) {
	fm := &fakeMigrator{}
	withFakeMigrator(t, fm)

	msg, err := applyMigrations(nil, options{direction: "up", force: -1})
	if err != nil {
		t.Fatalf("applyMigrations: %v", err)
	}
	if fm.upCalls != 1 {
		t.Fatalf("expected Up called once, got %d", fm.upCalls)
	}
	if msg != "Migration up completed successfully" {
		t.Fatalf("unexpected msg: %q", msg)
	}
}

func TestApplyMigrations_NoChange(t *testing.T) {
	fm := &fakeMigrator{upErr: migrate.ErrNoChange}
	withFakeMigrator(t, fm)

	msg, err := applyMigrations(nil, options{direction: "up", force: -1})
	if err != nil {
		t.Fatalf("applyMigrations: %v", err)
	}
	if msg != "No migrations to apply" {
		t.Fatalf("expected no-change msg, got %q", msg)
	}
}

func TestApplyMigrations_StepsDown(t *testing.T) {
	fm := &fakeMigrator{}
	withFakeMigrator(t, fm)

	if _, err := applyMigrations(nil, options{direction: "down", steps: 3, force: -1}); err != nil {
		t.Fatalf("applyMigrations: %v", err)
	}
	if len(fm.stepsCalls) != 1 || fm.stepsCalls[0] != -3 {
		t.Fatalf("expected Steps(-3), got %#v", fm.stepsCalls)
	}
}

func TestApplyMigrations_ForceSkipsMigrating(t *testing.T) {
	fm := &fakeMigrator{}
	withFakeMigrator(t, fm)

	msg, err := applyMigrations(nil, options{direction: "up", force: 1})
	if err != nil {
		t.Fatalf("applyMigrations: %v", err)
	}
	if msg != "Forced database to version 1" {
		t.Fatalf("unexpected msg: %q", msg)
	}
	if len(fm.forceCalls) != 1 || fm.forceCalls[0] != 1 {
		t.Fatalf("expected Force(1), got %#v", fm.forceCalls)
	}
	if fm.upCalls != 0 {
		t.Fatalf("forcing should not migrate, Up called %d times", fm.upCalls)
	}
}

func TestNewMigrator_FactoryErrorPaths(t *testing.T) {
	prevWith := withPostgresInstance
	prevNewMigrate := newMigrateWithDB
	defer func() {
		withPostgresInstance = prevWith
		newMigrateWithDB = prevNewMigrate
	}()

	withPostgresInstance = func(_ *sql.DB) (migratedb.Driver, error) { return nil, sql.ErrConnDone }
	if _, err := newMigrator(nil); err == nil {
		t.Fatalf("expected error")
	}

	withPostgresInstance = func(_ *sql.DB) (migratedb.Driver, error) { return nil, nil }
	newMigrateWithDB = func(string, string, migratedb.Driver) (migrator, error) { return nil, sql.ErrConnDone }
	if _, err := newMigrator(nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDefaultDeps_NonNil(t *testing.T) {
	d := defaultDeps()
	if d.getenv == nil || d.openDB == nil || d.apply == nil {
		t.Fatalf("expected default deps to be populated: %#v", d)
	}
}
