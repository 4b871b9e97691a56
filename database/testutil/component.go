package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/database"
	"github.com/kbukum/modeloptions/logger"
	roottestutil "github.com/kbukum/modeloptions/testutil"
)

// Component is a database.Component on "file::memory:" with the options
// table created on Start.
type Component struct {
	inner   *database.Component
	cfg     database.Config
	started bool
	mu      sync.RWMutex
}

var (
	_ component.Component        = (*Component)(nil)
	_ roottestutil.TestComponent = (*Component)(nil)
)

// NewComponent creates a test database that creates its table with GORM.
func NewComponent() *Component {
	return &Component{cfg: database.Config{
		Enabled:     true,
		Name:        "database-test",
		Driver:      database.DriverSQLite,
		DSN:         "file::memory:",
		MaxRetries:  1,
		AutoMigrate: true,
		LogLevel:    "silent",
	}}
}

// WithSQLMigrations creates the table from the embedded SQL migrations
// instead of the GORM model.
func (c *Component) WithSQLMigrations() *Component {
	c.cfg.AutoMigrate = false
	c.cfg.RunMigrations = true
	return c
}

// DB returns the connected database, or nil if not started.
func (c *Component) DB() *database.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.inner == nil {
		return nil
	}
	return c.inner.DB()
}

// OptionStore returns the persisted store, or nil if not started.
func (c *Component) OptionStore() *database.OptionStore {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.inner == nil {
		return nil
	}
	return c.inner.OptionStore()
}

// Name returns the component name.
func (c *Component) Name() string { return c.cfg.Name }

// Start opens the database and creates the options table.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("component already started")
	}
	inner := database.NewComponent(c.cfg, logger.NewNop())
	if err := inner.Start(ctx); err != nil {
		return err
	}
	c.inner = inner
	c.started = true
	return nil
}

// Stop closes the database. The in-memory data is lost.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	c.started = false
	return c.inner.Stop(ctx)
}

// Health reports the wrapped component's health.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not started",
		}
	}
	h := c.inner.Health(ctx)
	h.Name = c.Name()
	return h
}

// Reset deletes every option row.
func (c *Component) Reset(ctx context.Context) error {
	db, err := c.startedDB()
	if err != nil {
		return err
	}
	return TruncateOptions(ctx, db)
}

// Snapshot returns a copy of every option row.
func (c *Component) Snapshot(ctx context.Context) (interface{}, error) {
	db, err := c.startedDB()
	if err != nil {
		return nil, err
	}
	var rows []database.Option
	if err := db.WithContext(ctx).Order("owner_type, owner_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot options: %w", err)
	}
	return rows, nil
}

// Restore replaces all option rows with a Snapshot result.
func (c *Component) Restore(ctx context.Context, snap interface{}) error {
	rows, ok := snap.([]database.Option)
	if !ok {
		return fmt.Errorf("invalid snapshot type: expected []database.Option, got %T", snap)
	}
	db, err := c.startedDB()
	if err != nil {
		return err
	}
	if err := TruncateOptions(ctx, db); err != nil {
		return err
	}
	return LoadOptions(ctx, db, rows...)
}

func (c *Component) startedDB() (*database.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.started {
		return nil, fmt.Errorf("component not started")
	}
	return c.inner.DB(), nil
}
