package migration

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/modeloptions/logger"
)

// RunnerTable records programmatic migrations. It is separate from the
// schema_migrations table owned by golang-migrate.
const RunnerTable = "gorm_migrations"

// Migration describes a single GORM-based schema migration.
type Migration struct {
	ID          string
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

type appliedMigration struct {
	ID        string    `gorm:"size:255;primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}

func (appliedMigration) TableName() string { return RunnerTable }

// Runner applies GORM-based migrations in registration order, each inside
// its own transaction.
type Runner struct {
	db         *gorm.DB
	log        *logger.Logger
	migrations []Migration
}

// NewRunner creates a runner bound to the given database and logger.
func NewRunner(db *gorm.DB, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{db: db, log: log}
}

// Add registers migrations to be applied.
func (r *Runner) Add(migrations ...Migration) *Runner {
	r.migrations = append(r.migrations, migrations...)
	return r
}

// Run applies all pending migrations and returns the ids it applied.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&appliedMigration{}); err != nil {
		return nil, fmt.Errorf("create %s table: %w", RunnerTable, err)
	}

	var applied []string
	for _, m := range r.migrations {
		var count int64
		if err := db.Model(&appliedMigration{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("check migration %s: %w", m.ID, err)
		}
		if count > 0 {
			r.log.Debug("Migration already applied", map[string]interface{}{"id": m.ID})
			continue
		}

		r.log.Info("Applying migration", map[string]interface{}{
			"id":          m.ID,
			"description": m.Description,
		})
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&appliedMigration{ID: m.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", m.ID, err)
		}
		applied = append(applied, m.ID)
	}
	return applied, nil
}

// Rollback reverts the most recently applied registered migration that has
// a Down step. It returns the reverted id, or "" when nothing was reverted.
func (r *Runner) Rollback(ctx context.Context) (string, error) {
	db := r.db.WithContext(ctx)
	for i := len(r.migrations) - 1; i >= 0; i-- {
		m := r.migrations[i]
		var count int64
		if err := db.Model(&appliedMigration{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return "", fmt.Errorf("check migration %s: %w", m.ID, err)
		}
		if count == 0 {
			continue
		}
		if m.Down == nil {
			return "", fmt.Errorf("migration %s has no down step", m.ID)
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Where("id = ?", m.ID).Delete(&appliedMigration{}).Error
		})
		if err != nil {
			return "", fmt.Errorf("roll back migration %s: %w", m.ID, err)
		}
		r.log.Info("Migration rolled back", map[string]interface{}{"id": m.ID})
		return m.ID, nil
	}
	return "", nil
}

// CreateIndexIfNotExists creates the named index declared on model's struct
// tags unless it already exists.
func CreateIndexIfNotExists(tx *gorm.DB, model interface{}, index string) error {
	if tx.Migrator().HasIndex(model, index) {
		return nil
	}
	return tx.Migrator().CreateIndex(model, index)
}

// AddColumnIfNotExists adds the column backing model's field unless it
// already exists.
func AddColumnIfNotExists(tx *gorm.DB, model interface{}, field string) error {
	if tx.Migrator().HasColumn(model, field) {
		return nil
	}
	return tx.Migrator().AddColumn(model, field)
}
