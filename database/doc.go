// Package database persists options in the model_options table through GORM.
//
// Each row references its owner polymorphically by (owner_type, owner_id) and
// the triple (owner_type, owner_id, key) is unique. OptionStore writes with an
// upsert, so concurrent sets on one key converge to a single row.
//
// # Quick Start
//
//	comp := database.NewComponent(database.Config{
//	    Enabled:     true,
//	    DSN:         "file:options.db",
//	    AutoMigrate: true,
//	}, log)
//	if err := comp.Start(ctx); err != nil {
//	    return err
//	}
//	defer comp.Stop(ctx)
//
//	store := comp.OptionStore()
//	_ = store.SetOption(ctx, user, "theme", "dark")
//	theme, _ := store.GetOption(ctx, user, "theme", "light")
//
// sqlite is the built-in driver. Any other GORM dialector can be passed with
// Component.WithDriver; set Config.RunMigrations together with
// Component.WithMigrationDriver to apply the versioned SQL in the migration
// package instead of auto-migrating.
//
// Storage errors are translated to AppError by FromDatabase. Deleting an
// option that does not exist fails with NOT_FOUND.
package database
