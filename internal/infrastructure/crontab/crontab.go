package crontab

import (
	"context"
	"sync"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"github.com/framevault/framevault-server/internal/config"
	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/infrastructure/metrics"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
)

// CronJobTimeout bounds a single reconciliation sweep.
const CronJobTimeout = 10 * time.Minute

// Sweeper is the orphan reconciliation job.
type Sweeper interface {
	Sweep(ctx context.Context) (asset.SweepResult, error)
}

type Crontab struct {
	ctab    *crontab.Crontab
	sweeper Sweeper
	cfg     *config.Config
	log     zerolog.Logger

	// a sweep still running when the next tick fires is skipped
	running sync.Mutex
}

func NewCrontab(cfg *config.Config, sweeper Sweeper, log zerolog.Logger) *Crontab {
	return &Crontab{
		ctab:    crontab.New(),
		sweeper: sweeper,
		cfg:     cfg,
		log:     log.With().Str("component", "crontab").Logger(),
	}
}

// Run schedules the reconciliation sweep and blocks until ctx is cancelled.
func (c *Crontab) Run(ctx context.Context) error {
	if !c.cfg.ReconcileEnabled {
		c.log.Info().Msg("orphan reconciliation disabled")
		<-ctx.Done()
		return nil
	}

	if err := c.ctab.AddJob(c.cfg.ReconcileCron, func() {
		jobCtx, cancel := context.WithTimeout(ctx, CronJobTimeout)
		defer cancel()
		c.RunSweep(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add reconciliation job")
	}
	c.log.Info().
		Str("schedule", c.cfg.ReconcileCron).
		Dur("grace_period", c.cfg.ReconcileGracePeriod).
		Msg("orphan reconciliation scheduled")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

// RunSweep executes one sweep unless another is in flight.
func (c *Crontab) RunSweep(ctx context.Context) {
	if !c.running.TryLock() {
		c.log.Warn().Msg("previous reconciliation sweep still running, skipping")
		return
	}
	defer c.running.Unlock()

	result, err := c.sweeper.Sweep(ctx)
	metrics.RecordReconcile(result.Deleted, err)
	if err != nil {
		c.log.Error().Err(err).Msg("reconciliation sweep failed")
	}
}
