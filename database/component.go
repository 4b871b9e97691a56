package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/database/migration"
	"github.com/kbukum/modeloptions/logger"
	"github.com/kbukum/modeloptions/observability"
)

// optionsSchema creates the model_options table from the Option model.
var optionsSchema = migration.Migration{
	ID:          "0001_model_options",
	Description: "create model_options from the Option model",
	Up:          func(tx *gorm.DB) error { return tx.AutoMigrate(&Option{}) },
	Down:        func(tx *gorm.DB) error { return tx.Migrator().DropTable(&Option{}) },
}

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	db           *DB
	store        *OptionStore
	cfg          Config
	log          *logger.Logger
	models       []interface{}
	dialector    gorm.Dialector
	migrationDrv migration.DriverFunc
	metrics      *observability.Metrics
}

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	c := &Component{cfg: cfg, log: log.WithComponent(cfg.Name)}
	if cfg.Driver == DriverSQLite {
		c.migrationDrv = migration.SQLiteDriver
	}
	return c
}

// WithDriver replaces the dialector chosen from Config.Driver.
func (c *Component) WithDriver(d gorm.Dialector) *Component {
	c.dialector = d
	return c
}

// WithMigrationDriver sets the golang-migrate driver used when
// RunMigrations is on.
func (c *Component) WithMigrationDriver(fn migration.DriverFunc) *Component {
	c.migrationDrv = fn
	return c
}

// WithAutoMigrate registers additional models for auto-migration on Start.
func (c *Component) WithAutoMigrate(models ...interface{}) *Component {
	c.models = append(c.models, models...)
	return c
}

// WithMetrics records option store metrics on m.
func (c *Component) WithMetrics(m *observability.Metrics) *Component {
	c.metrics = m
	return c
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	return c.db
}

// OptionStore returns the persisted option store, or nil if not started.
func (c *Component) OptionStore() *OptionStore {
	return c.store
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Name returns the component name.
func (c *Component) Name() string { return c.cfg.Name }

// Start connects, applies migrations and builds the option store.
func (c *Component) Start(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	dialector := c.dialector
	if dialector == nil {
		d, err := Dialector(c.cfg)
		if err != nil {
			return fmt.Errorf("database start: %w", err)
		}
		dialector = d
	}

	db, err := New(ctx, dialector, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}

	if err := c.migrate(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	c.db = db
	c.store = NewOptionStore(db).WithMetrics(c.metrics)
	return nil
}

func (c *Component) migrate(ctx context.Context, db *DB) error {
	if c.cfg.RunMigrations {
		if c.migrationDrv == nil {
			return fmt.Errorf("database migrations: no migration driver for %q", c.cfg.Driver)
		}
		if err := migration.OptionsUp(db.GormDB, c.migrationDrv); err != nil {
			return fmt.Errorf("database migrations: %w", err)
		}
	}
	if c.cfg.AutoMigrate {
		if _, err := migration.NewRunner(db.GormDB, c.log).Add(optionsSchema).Run(ctx); err != nil {
			return fmt.Errorf("database auto-migrate: %w", err)
		}
		if len(c.models) > 0 {
			if err := db.AutoMigrate(c.models...); err != nil {
				return fmt.Errorf("database auto-migrate: %w", err)
			}
		}
	}
	return nil
}

// Stop gracefully closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health returns the current health status of the database.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not initialized",
		}
	}

	status := c.db.CheckHealth(ctx)
	if !status.Connected {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %s", status.Error),
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("latency=%s open=%d in_use=%d", status.Latency, status.OpenConns, status.InUseConns),
	}
}

// Describe returns a startup summary of the connection.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s pool=%d/%d", c.cfg.Driver, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.InMemory() {
		details = c.cfg.Driver + " in-memory"
	}
	if c.cfg.RunMigrations {
		details += " migrations=on"
	}
	if c.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	return component.Description{
		Name:    "Database",
		Type:    "database",
		Details: details,
	}
}
