// Package migration applies schema changes to the options database.
//
// Versioned SQL files run through golang-migrate. The files for the
// model_options table are embedded and exposed through OptionsUp and
// OptionsDown; other file sets can be applied with MigrateUp. A DriverFunc
// selects the golang-migrate database driver:
//
//	err := migration.MigrateUp(gormDB, migrationsFS, "migrations", migration.SQLiteDriver)
//
// Runner covers programmatic GORM migrations tracked in their own table.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var optionsFS embed.FS

// OptionsPath is the directory of the embedded options migrations.
const OptionsPath = "sql"

// DriverFunc creates a migrate database driver from sql.DB.
type DriverFunc func(*sql.DB) (database.Driver, error)

// SQLiteDriver is the DriverFunc for sqlite databases.
func SQLiteDriver(db *sql.DB) (database.Driver, error) {
	return sqlite3.WithInstance(db, &sqlite3.Config{})
}

// OptionsUp creates or upgrades the model_options table.
func OptionsUp(gormDB *gorm.DB, driverFunc DriverFunc) error {
	return MigrateUp(gormDB, optionsFS, OptionsPath, driverFunc)
}

// OptionsDown drops the model_options table.
func OptionsDown(gormDB *gorm.DB, driverFunc DriverFunc) error {
	return MigrateDown(gormDB, optionsFS, OptionsPath, driverFunc)
}

// MigrateUp runs all pending versioned migrations from fsys.
// Returns nil if there are no new migrations to apply.
func MigrateUp(gormDB *gorm.DB, fsys fs.FS, path string, driverFunc DriverFunc) error {
	m, err := newMigrator(gormDB, fsys, path, driverFunc)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back all versioned migrations.
func MigrateDown(gormDB *gorm.DB, fsys fs.FS, path string, driverFunc DriverFunc) error {
	m, err := newMigrator(gormDB, fsys, path, driverFunc)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrateVersion returns the current migration version and dirty flag.
// A database without applied migrations reports version 0.
func MigrateVersion(gormDB *gorm.DB, fsys fs.FS, path string, driverFunc DriverFunc) (version uint, dirty bool, err error) {
	m, err := newMigrator(gormDB, fsys, path, driverFunc)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// MigrateSteps runs n migrations, up when n is positive and down otherwise.
func MigrateSteps(gormDB *gorm.DB, fsys fs.FS, path string, n int, driverFunc DriverFunc) error {
	m, err := newMigrator(gormDB, fsys, path, driverFunc)
	if err != nil {
		return err
	}
	if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate steps: %w", err)
	}
	return nil
}

// newMigrator creates a golang-migrate instance over fsys.
// Callers must not call m.Close(), it would close the shared sql.DB.
func newMigrator(gormDB *gorm.DB, fsys fs.FS, path string, driverFunc DriverFunc) (*migrate.Migrate, error) {
	if driverFunc == nil {
		return nil, errors.New("migration driver is required")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	driver, err := driverFunc(sqlDB)
	if err != nil {
		return nil, fmt.Errorf("create database driver: %w", err)
	}

	source, err := iofs.New(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "database", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
