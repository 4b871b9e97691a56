package database

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/logger"
)

func memoryConfig() Config {
	return Config{
		Enabled:     true,
		DSN:         "file::memory:",
		MaxRetries:  1,
		AutoMigrate: true,
		LogLevel:    "silent",
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	comp := NewComponent(memoryConfig(), logger.NewNop())

	if comp.Name() != "database" {
		t.Errorf("Name() = %q, want database", comp.Name())
	}
	if comp.DB() != nil || comp.OptionStore() != nil {
		t.Error("DB and OptionStore should be nil before Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before Start, got %v", h.Status)
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if comp.OptionStore() == nil {
		t.Fatal("OptionStore should be set after Start")
	}
	if !comp.DB().GormDB.Migrator().HasTable("model_options") {
		t.Error("expected model_options after auto-migrate")
	}
	if !comp.DB().GormDB.Migrator().HasIndex(&Option{}, "idx_model_options_owner_key") {
		t.Error("expected the owner/key unique index")
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Errorf("second Stop() should be safe, got %v", err)
	}
}

func TestComponent_AutoMigrateIsRecorded(t *testing.T) {
	ctx := context.Background()
	comp := NewComponent(memoryConfig(), logger.NewNop())
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer comp.Stop(ctx)

	var ids []string
	if err := comp.DB().GormDB.Table("gorm_migrations").Pluck("id", &ids).Error; err != nil {
		t.Fatalf("read gorm_migrations: %v", err)
	}
	if len(ids) != 1 || ids[0] != optionsSchema.ID {
		t.Errorf("recorded migrations = %v", ids)
	}
}

func TestComponent_SQLMigrations(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.AutoMigrate = false
	cfg.RunMigrations = true
	comp := NewComponent(cfg, logger.NewNop())
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer comp.Stop(ctx)

	m := comp.DB().GormDB.Migrator()
	if !m.HasTable("model_options") || !m.HasTable("schema_migrations") {
		t.Error("expected model_options and schema_migrations tables")
	}
}

func TestComponent_WithDriver(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Driver = "custom"
	cfg.MaxOpenConns, cfg.MaxIdleConns = 1, 1
	comp := NewComponent(cfg, logger.NewNop()).WithDriver(sqlite.Open("file::memory:"))

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer comp.Stop(ctx)
	if comp.OptionStore() == nil {
		t.Error("expected store from the supplied dialector")
	}
}

func TestComponent_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Driver = "oracle"
	err := NewComponent(cfg, logger.NewNop()).Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "oracle") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestComponent_MigrationsNeedDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Driver = "custom"
	cfg.RunMigrations = true
	comp := NewComponent(cfg, logger.NewNop()).WithDriver(sqlite.Open("file::memory:"))
	if err := comp.Start(context.Background()); err == nil {
		t.Fatal("expected error without a migration driver")
	}
	if comp.DB() != nil {
		t.Error("DB should stay nil after a failed Start")
	}
}

func TestComponent_InvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.DSN = ""
	if err := NewComponent(cfg, nil).Start(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestComponent_Describe(t *testing.T) {
	desc := NewComponent(memoryConfig(), nil).Describe()
	if desc.Type != "database" || desc.Details != "sqlite in-memory auto-migrate=on" {
		t.Errorf("unexpected description %+v", desc)
	}

	cfg := memoryConfig()
	cfg.DSN = "/tmp/options.db"
	cfg.AutoMigrate = false
	cfg.RunMigrations = true
	if got := NewComponent(cfg, nil).Describe().Details; got != "sqlite pool=25/5 migrations=on" {
		t.Errorf("Details = %q", got)
	}
}

func TestDB_WithTransaction(t *testing.T) {
	ctx := context.Background()
	comp := NewComponent(memoryConfig(), logger.NewNop())
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer comp.Stop(ctx)
	db := comp.DB()

	err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&Option{OwnerType: "widget", OwnerID: "1", Key: "color", Value: "blue"}).Error; err != nil {
			return err
		}
		return errRollback
	})
	if err != errRollback {
		t.Fatalf("expected rollback error, got %v", err)
	}

	var count int64
	db.WithContext(ctx).Model(&Option{}).Count(&count)
	if count != 0 {
		t.Errorf("expected rolled back insert, found %d rows", count)
	}

	status := db.CheckHealth(ctx)
	if !status.Connected || status.OpenConns != 1 {
		t.Errorf("unexpected health %+v", status)
	}
}

var errRollback = stderrors.New("rollback")
