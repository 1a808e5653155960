package database

import (
	"context"
	"fmt"
	"log/slog"

	"socialgraph/internal/config"
	"socialgraph/internal/middleware"

	"gorm.io/gorm"
)

// ApplySchema brings the database schema up to date according to DB_SCHEMA_MODE.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	switch cfg.DBSchemaMode {
	case config.SchemaModeSQL:
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to run SQL migrations: %w", err)
		}
	case config.SchemaModeAuto, "":
		if err := AutoMigrate(ctx, db); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported schema mode %q", cfg.DBSchemaMode)
	}

	middleware.Logger.Info("Database schema ready", slog.String("mode", cfg.DBSchemaMode))
	return nil
}

// AutoMigrate creates or updates every persistent model's table.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
