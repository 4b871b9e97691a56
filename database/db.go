package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/modeloptions/logger"
)

// DB is an open options database.
type DB struct {
	GormDB *gorm.DB
	log    *logger.Logger
	cfg    Config

	closeOnce sync.Once
	closeErr  error
}

// Dialector returns the built-in dialector for cfg.Driver. Only sqlite is
// built in.
func Dialector(cfg Config) (gorm.Dialector, error) {
	if cfg.Driver == DriverSQLite || cfg.Driver == "" {
		return sqlite.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("no built-in dialector for driver %q, use Component.WithDriver", cfg.Driver)
}

// New connects through dialector, retrying up to cfg.MaxRetries times with
// a linear backoff of one second per failed attempt. Cancelling ctx aborts
// the wait between attempts.
func New(ctx context.Context, dialector gorm.Dialector, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	slow, _ := time.ParseDuration(cfg.SlowQueryThreshold)
	gormCfg := &gorm.Config{Logger: newQueryLogger(log, slow, parseLogLevel(cfg.LogLevel))}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * time.Second
			log.Warn("Database connection attempt failed, retrying", logger.MergeWithError(
				logger.Fields("attempt", attempt-1, "backoff", wait.String()), lastErr))
			if err := sleep(ctx, wait); err != nil {
				return nil, fmt.Errorf("database connection canceled during retry: %w", err)
			}
		} else if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("database connection canceled: %w", err)
		}

		gdb, err := connect(ctx, dialector, gormCfg, cfg)
		if err == nil {
			log.Info("Database connection established", logger.Fields("attempt", attempt, "driver", cfg.Driver))
			return &DB{GormDB: gdb, log: log, cfg: cfg}, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", cfg.MaxRetries, lastErr)
}

func connect(ctx context.Context, dialector gorm.Dialector, gormCfg *gorm.Config, cfg Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	configurePool(sqlDB, cfg)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gdb, nil
}

// configurePool applies the pool limits. A private in-memory sqlite database
// lives on one connection, so it is pinned to exactly one.
func configurePool(sqlDB *sql.DB, cfg Config) {
	if cfg.InMemory() {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		sqlDB.SetConnMaxLifetime(d)
	}
	if d, err := time.ParseDuration(cfg.ConnMaxIdleTime); err == nil {
		sqlDB.SetConnMaxIdleTime(d)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Config returns the effective configuration, defaults applied.
func (d *DB) Config() Config { return d.cfg }

// Close closes the connection pool. Later calls return the first result.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		sqlDB, err := d.GormDB.DB()
		if err != nil {
			d.closeErr = err
			return
		}
		d.log.Info("Closing database connection")
		d.closeErr = sqlDB.Close()
	})
	return d.closeErr
}

// WithContext returns a session bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.GormDB.WithContext(ctx)
}

// AutoMigrate creates or alters the tables of models, one at a time.
func (d *DB) AutoMigrate(models ...interface{}) error {
	d.log.Info("Running auto-migration", logger.Fields("models", len(models)))
	for _, model := range models {
		if err := d.GormDB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}

// WithTransaction runs fn in a transaction. A returned error or a panic
// rolls it back; the panic is re-raised.
func (d *DB) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.GormDB.WithContext(ctx).Transaction(fn)
}
