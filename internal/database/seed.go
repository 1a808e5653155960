package database

import (
	"context"
	"fmt"
	"log/slog"

	"socialgraph/internal/middleware"
	"socialgraph/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedMemberTypes inserts the fixed member type catalogue. Existing rows are
// left untouched.
func SeedMemberTypes(ctx context.Context, db *gorm.DB) error {
	rows := models.DefaultMemberTypes()
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if res.Error != nil {
		return fmt.Errorf("failed to seed member types: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		middleware.Logger.Info("Seeded member types", slog.Int64("rows", res.RowsAffected))
	}
	return nil
}
