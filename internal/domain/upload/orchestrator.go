package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
)

// ProgressFunc receives a copy of the whole batch state after every change.
type ProgressFunc func([]Progress)

// Options tunes a batch run.
type Options struct {
	// Concurrency bounds parallel transfers. Values below 2 upload one file at a time.
	Concurrency int
	OnProgress  ProgressFunc
}

// Orchestrator drives presign, transfer and metadata registration for a batch.
type Orchestrator struct {
	client Client
	log    zerolog.Logger
}

// NewOrchestrator creates an orchestrator over the given API client.
func NewOrchestrator(client Client, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		log:    log.With().Str("component", "upload-orchestrator").Logger(),
	}
}

// Upload sends every file with the shared batch metadata. Files that completed
// before a failure stay registered; the rest end in the error state.
func (o *Orchestrator) Upload(ctx context.Context, files []File, meta asset.Metadata, opts Options) (*BatchResult, error) {
	if err := validateBatch(ctx, files, meta); err != nil {
		return nil, err
	}

	tracker := newTracker(files, opts.OnProgress)
	result := &BatchResult{Warnings: SizeWarnings(files)}

	saved := make([]*asset.UploadedAsset, len(files))
	var runErr error
	if opts.Concurrency > 1 {
		runErr = o.runPool(ctx, files, meta, opts.Concurrency, tracker, saved)
	} else {
		for i := range files {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
			uploaded, err := o.uploadOne(ctx, i, files[i], meta, tracker)
			if err != nil {
				runErr = err
				break
			}
			saved[i] = uploaded
		}
	}

	for _, a := range saved {
		if a != nil {
			result.Assets = append(result.Assets, *a)
		}
	}

	if runErr != nil {
		msg := batchFailureMessage(runErr)
		tracker.failRemaining(msg)
		result.Progress = tracker.snapshot()
		o.log.Error().Err(runErr).Int("completed", len(result.Assets)).Int("total", len(files)).Msg("batch upload failed")
		return result, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			msg, runErr, "4b1f7c2e-9d3a-4e58-b6a1-0c7d2e9f3a51")
	}

	result.Progress = tracker.snapshot()
	o.log.Info().Int("files", len(files)).Msg("batch upload completed")
	return result, nil
}

func (o *Orchestrator) runPool(ctx context.Context, files []File, meta asset.Metadata, limit int, tracker *tracker, saved []*asset.UploadedAsset) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var failed atomic.Bool
	for i := range files {
		if failed.Load() || gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			// A slot may free up only because a sibling failed.
			if failed.Load() || gctx.Err() != nil {
				return nil
			}
			uploaded, err := o.uploadOne(gctx, i, files[i], meta, tracker)
			if err != nil {
				failed.Store(true)
				return err
			}
			saved[i] = uploaded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (o *Orchestrator) uploadOne(ctx context.Context, idx int, file File, meta asset.Metadata, tracker *tracker) (*asset.UploadedAsset, error) {
	contentType := strings.TrimSpace(file.MimeType)
	if contentType == "" {
		contentType = asset.DefaultMimeType
	}
	tracker.update(idx, func(p *Progress) {
		p.Status = StatusUploading
		p.Progress = progressRequestingURL
	})

	presigned, err := o.client.RequestUploadURL(ctx, PresignRequest{
		FileName: file.Name,
		FileType: contentType,
		FileSize: file.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to get presigned URL: %w", err)
	}
	tracker.update(idx, func(p *Progress) { p.Progress = progressURLGranted })

	if err := o.transfer(ctx, idx, file, presigned.PresignedURL, contentType, tracker); err != nil {
		return nil, err
	}

	tracker.update(idx, func(p *Progress) { p.Progress = progressSaving })
	uploaded, err := o.client.SaveMetadata(ctx, MetadataRequest{
		Key:              presigned.Key,
		OriginalFilename: file.Name,
		PublicURL:        presigned.PublicURL,
		FileType:         asset.DetectFileType(file.MimeType, file.Name),
		MimeType:         contentType,
		Size:             file.Size,
		Metadata:         meta,
	})
	if err != nil {
		if abandonErr := o.client.AbandonUpload(context.WithoutCancel(ctx), presigned.Key); abandonErr != nil {
			o.log.Warn().Err(abandonErr).Str("key", presigned.Key).Msg("failed to abandon orphaned upload")
		}
		return nil, fmt.Errorf("Failed to save metadata: %w", err)
	}

	tracker.update(idx, func(p *Progress) {
		p.Status = StatusCompleted
		p.Progress = progressDone
	})
	return uploaded, nil
}

func (o *Orchestrator) transfer(ctx context.Context, idx int, file File, url, contentType string, tracker *tracker) error {
	if file.Open == nil {
		return fmt.Errorf("no content available for %s", file.Name)
	}
	body, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer body.Close()

	onProgress := func(sent, total int64) {
		if total <= 0 {
			return
		}
		if sent > total {
			sent = total
		}
		pct := progressURLGranted + int(sent*progressTransferSpan/total)
		tracker.update(idx, func(p *Progress) {
			if pct > p.Progress {
				p.Progress = pct
			}
		})
	}
	if err := o.client.PutObject(ctx, url, body, file.Size, contentType, onProgress); err != nil {
		return fmt.Errorf("Upload failed: %w", err)
	}
	return nil
}

func validateBatch(ctx context.Context, files []File, meta asset.Metadata) error {
	if len(files) == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Please select files to upload", nil, "7a2c4e61-3b5d-4f8a-9c0e-1d2f3a4b5c62")
	}
	if strings.TrimSpace(meta.Event) == "" || strings.TrimSpace(meta.Date) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Please fill in required fields: Event and Date", nil, "8b3d5f72-4c6e-4a9b-8d1f-2e3a4b5c6d73")
	}
	if !asset.ValidDate(strings.TrimSpace(meta.Date)) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", meta.Date), nil, "9c4e6a83-5d7f-4b0c-9e2a-3f4b5c6d7e84")
	}
	return nil
}

func batchFailureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return "Upload timed out. Large files may take several minutes; try again or upload fewer files at once."
	}
	if errors.Is(err, context.Canceled) {
		return "Upload cancelled"
	}
	return "Upload failed: " + err.Error()
}

type tracker struct {
	mu       sync.Mutex
	items    []Progress
	onChange ProgressFunc
}

func newTracker(files []File, onChange ProgressFunc) *tracker {
	items := make([]Progress, len(files))
	for i, f := range files {
		items[i] = Progress{Filename: f.Name, Status: StatusPending}
	}
	t := &tracker{items: items, onChange: onChange}
	t.emit()
	return t
}

func (t *tracker) update(idx int, fn func(*Progress)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	before := t.items[idx]
	fn(&t.items[idx])
	if t.items[idx] != before {
		t.emitLocked()
	}
}

func (t *tracker) failRemaining(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items {
		if t.items[i].Status != StatusCompleted {
			t.items[i].Status = StatusError
			t.items[i].Error = msg
		}
	}
	t.emitLocked()
}

func (t *tracker) snapshot() []Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Progress(nil), t.items...)
}

func (t *tracker) emit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emitLocked()
}

// emitLocked delivers under the lock so observers see snapshots in order.
func (t *tracker) emitLocked() {
	if t.onChange == nil {
		return
	}
	t.onChange(append([]Progress(nil), t.items...))
}
