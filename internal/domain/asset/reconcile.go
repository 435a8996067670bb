package asset

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const reconcileBatchSize = 500

// SweepResult reports the outcome of one reconciliation sweep.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Orphans int `json:"orphans"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// SweepObserver receives the result of each sweep.
type SweepObserver func(result SweepResult, err error)

// Reconciler removes blobs that no asset record references.
type Reconciler struct {
	repo     Repository
	storage  Storage
	grace    time.Duration
	log      zerolog.Logger
	now      func() time.Time
	observer SweepObserver
}

// NewReconciler creates a reconciler that only touches blobs older than grace.
func NewReconciler(repo Repository, storage Storage, grace time.Duration, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		repo:    repo,
		storage: storage,
		grace:   grace,
		log:     log.With().Str("component", "asset-reconciler").Logger(),
		now:     time.Now,
	}
}

// OnSweep registers a callback invoked after every sweep.
func (r *Reconciler) OnSweep(observer SweepObserver) {
	r.observer = observer
}

// Sweep deletes unreferenced blobs under the asset prefix that are older than the grace period.
func (r *Reconciler) Sweep(ctx context.Context) (SweepResult, error) {
	result, err := r.sweep(ctx)
	if r.observer != nil {
		r.observer(result, err)
	}
	return result, err
}

func (r *Reconciler) sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	objects, err := r.storage.List(ctx, KeyPrefix)
	if err != nil {
		return result, err
	}
	result.Scanned = len(objects)

	cutoff := r.now().Add(-r.grace)
	candidates := make([]string, 0, len(objects))
	for _, obj := range objects {
		if obj.LastModified.Before(cutoff) {
			candidates = append(candidates, obj.Key)
		}
	}

	for start := 0; start < len(candidates); start += reconcileBatchSize {
		end := min(start+reconcileBatchSize, len(candidates))
		batch := candidates[start:end]

		referenced, err := r.repo.ExistingFilenames(ctx, batch)
		if err != nil {
			return result, err
		}
		for _, key := range batch {
			if referenced[key] {
				continue
			}
			result.Orphans++
			if err := r.storage.Delete(ctx, key); err != nil {
				result.Failed++
				r.log.Warn().Err(err).Str("key", key).Msg("orphan delete failed")
				continue
			}
			result.Deleted++
		}
	}

	r.log.Info().
		Int("scanned", result.Scanned).
		Int("orphans", result.Orphans).
		Int("deleted", result.Deleted).
		Int("failed", result.Failed).
		Msg("reconciliation sweep finished")
	return result, nil
}
