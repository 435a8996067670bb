package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"github.com/framevault/framevault-server/internal/config"
	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/infrastructure/auth"
	"github.com/framevault/framevault-server/internal/infrastructure/cache"
	"github.com/framevault/framevault-server/internal/infrastructure/crontab"
	"github.com/framevault/framevault-server/internal/infrastructure/database"
	"github.com/framevault/framevault-server/internal/infrastructure/logger"
	"github.com/framevault/framevault-server/internal/infrastructure/observability"
	repo "github.com/framevault/framevault-server/internal/infrastructure/repository/asset"
	"github.com/framevault/framevault-server/internal/infrastructure/storage"
	"github.com/framevault/framevault-server/internal/interfaces/httpserver"
	"github.com/framevault/framevault-server/pkg/telemetry"
)

// @title FrameVault API
// @version 1.0
// @description Event media asset service: uploads, metadata, gallery queries and downloads.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	cron       *crontab.Crontab
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, cron *crontab.Crontab, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		cron:       cron,
		log:        log,
	}
}

// Start runs the HTTP server and the reconciliation schedule until ctx ends.
func (a *Application) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.httpServer.Run(gctx) })
	g.Go(func() error { return a.cron.Run(gctx) })
	return g.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	if issues := cfg.DiagnoseMissing(); !issues.OK() {
		log.Warn().
			Strs("missing", issues.Missing).
			Strs("placeholders", issues.Placeholders).
			Msg("configuration incomplete")
	}

	db, err := database.Connect(newDatabaseConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Str("dsn", telemetry.RedactDSN(cfg.DBDSN)).Msg("connect database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	storageClient, err := provideStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	statsCache, closeCache, err := provideStatsCache(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize stats cache")
	}
	defer closeCache()

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth")
	}

	assetRepository := repo.NewRepository(db)
	assetService := asset.NewService(cfg, assetRepository, storageClient, statsCache, log)
	reconciler := asset.NewReconciler(assetRepository, storageClient, cfg.ReconcileGracePeriod, log)

	httpServer := httpserver.New(cfg, log, assetService, authValidator)
	app := NewApplication(httpServer, crontab.NewCrontab(cfg, reconciler, log), log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DBDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

// provideStorage creates the appropriate storage backend based on configuration.
func provideStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (asset.Storage, error) {
	if cfg.IsLocalStorage() {
		localStorage, err := storage.NewLocalStorage(cfg, log)
		if err != nil {
			return nil, err
		}
		return localStorage, nil
	}

	s3Storage, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return s3Storage, nil
}

// provideStatsCache connects the stats cache when REDIS_URL is set. A nil cache
// makes the service compute stats on every request.
func provideStatsCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (asset.StatsCache, func(), error) {
	if cfg.RedisURL == "" {
		return nil, func() {}, nil
	}
	statsCache, err := cache.NewStatsCache(ctx, cfg.RedisURL, cfg.StatsCacheTTL, log)
	if err != nil {
		return nil, func() {}, err
	}
	return statsCache, func() {
		if err := statsCache.Close(); err != nil {
			log.Error().Err(err).Msg("close stats cache")
		}
	}, nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
