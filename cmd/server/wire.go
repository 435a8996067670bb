//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/framevault/framevault-server/internal/config"
	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/infrastructure/auth"
	"github.com/framevault/framevault-server/internal/infrastructure/crontab"
	"github.com/framevault/framevault-server/internal/infrastructure/database"
	"github.com/framevault/framevault-server/internal/infrastructure/logger"
	repo "github.com/framevault/framevault-server/internal/infrastructure/repository/asset"
	"github.com/framevault/framevault-server/internal/interfaces/httpserver"
)

var assetSet = wire.NewSet(
	repo.NewRepository,
	wire.Bind(new(asset.Repository), new(*repo.Repository)),
	provideStorage,
	provideStats,
	asset.NewService,
	provideReconciler,
	wire.Bind(new(crontab.Sweeper), new(*asset.Reconciler)),
	crontab.NewCrontab,
)

// BuildApplication assembles the asset server with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		newDatabaseConfig,
		newGormDB,
		assetSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func provideStats(ctx context.Context, cfg *config.Config, log zerolog.Logger) (asset.StatsCache, error) {
	statsCache, _, err := provideStatsCache(ctx, cfg, log)
	return statsCache, err
}

func provideReconciler(cfg *config.Config, repository asset.Repository, storage asset.Storage, log zerolog.Logger) *asset.Reconciler {
	return asset.NewReconciler(repository, storage, cfg.ReconcileGracePeriod, log)
}
