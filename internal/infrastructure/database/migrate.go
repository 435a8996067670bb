package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/framevault/framevault-server/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.Asset{}); err != nil {
		return err
	}
	log.Info().Str("dialect", db.Dialector.Name()).Msg("applied asset migrations")
	return nil
}
