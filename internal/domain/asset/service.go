package asset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/framevault/framevault-server/internal/config"
	"github.com/framevault/framevault-server/internal/utils/assetid"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
	"github.com/framevault/framevault-server/pkg/telemetry"
)

// DefaultMimeType is recorded when an upload declares no content type.
const DefaultMimeType = "application/octet-stream"

// KeyPrefix is the storage prefix every asset key lives under.
const KeyPrefix = "assets/"

const sniffLen = 3072

// Service orchestrates asset metadata and blob storage.
type Service struct {
	cfg     *config.Config
	repo    Repository
	storage Storage
	cache   StatsCache
	log     zerolog.Logger
	now     func() time.Time
}

// NewService wires the asset service. cache may be nil.
func NewService(cfg *config.Config, repo Repository, storage Storage, cache StatsCache, log zerolog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		storage: storage,
		cache:   cache,
		log:     log.With().Str("component", "asset-service").Logger(),
		now:     time.Now,
	}
}

// Create validates and persists a new asset record.
func (s *Service) Create(ctx context.Context, input NewAsset) (*Asset, error) {
	meta := input.Metadata
	if err := validateMetadata(ctx, meta); err != nil {
		return nil, err
	}

	fileType := input.FileType
	if fileType == "" {
		fileType = DetectFileType(input.MimeType, input.OriginalFilename)
	}
	url := strings.TrimSpace(input.URL)
	if url == "" && input.Filename != "" {
		url = s.storage.PublicURL(input.Filename)
	}
	original := input.OriginalFilename
	if original == "" {
		original = input.Filename
	}

	record := &Asset{
		ID:               assetid.New(),
		Filename:         input.Filename,
		OriginalFilename: original,
		URL:              url,
		PublicURL:        url,
		FileType:         fileType,
		MimeType:         input.MimeType,
		Size:             input.Size,
		UploadedAt:       s.now().UTC().Truncate(time.Microsecond),
		Event:            strings.TrimSpace(meta.Event),
		Date:             strings.TrimSpace(meta.Date),
		Location:         meta.Location,
		Photographer:     strings.TrimSpace(meta.Photographer),
		Tags:             cleanTags(meta.Tags),
		Description:      meta.Description,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to save asset metadata")
	}
	s.invalidateStats(ctx)

	s.log.Info().
		Str("asset_id", record.ID).
		Str("key", record.Filename).
		Str("event", record.Event).
		Msg("asset created")
	return record, nil
}

// List returns one page of assets, most recently uploaded first. A next cursor is
// only returned when the page is full.
func (s *Service) List(ctx context.Context, pageSize int, cursor string) (*Page, error) {
	pageSize = NormalizePageSize(pageSize)

	query := ListQuery{Limit: pageSize}
	if strings.TrimSpace(cursor) != "" {
		after, err := DecodeCursor(cursor)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"invalid offset", err, "a3b1f1d6-4a4e-4d34-9b7d-0d6f1c1d7e01")
		}
		query.After = after
	}

	records, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list assets")
	}

	page := &Page{Records: records}
	if len(records) == pageSize {
		last := records[len(records)-1]
		page.NextCursor = Cursor{UploadedAt: last.UploadedAt, ID: last.ID}.Encode()
	}
	return page, nil
}

// Search filters assets by the given criteria, most recently uploaded first.
func (s *Service) Search(ctx context.Context, criteria SearchCriteria) ([]Asset, error) {
	criteria = criteria.Normalize()
	for _, bound := range []string{criteria.DateFrom, criteria.DateTo} {
		if bound != "" && !ValidDate(bound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", bound), nil, "5c0e0f53-8a2d-4c8b-8d8e-4f4c8d3b2a02")
		}
	}

	records, err := s.repo.Search(ctx, criteria)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to search assets")
	}
	return records, nil
}

// GetByID returns a single asset.
func (s *Service) GetByID(ctx context.Context, id string) (*Asset, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"asset id is required", nil, "d1b8b5a4-2f7e-4a8a-9f1e-3c7a5b2e9d03")
	}
	return s.repo.GetByID(ctx, id)
}

// Stats summarises the collection, served from cache when one is configured.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("stats cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	records, err := s.repo.All(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to compute stats")
	}
	stats := ComputeStats(records)

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.log.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}

// Delete removes the record and then its blob. A blob delete failure is logged
// and left for the reconciliation sweep.
func (s *Service) Delete(ctx context.Context, id string) error {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete asset")
	}
	s.invalidateStats(ctx)

	if record.Filename != "" {
		if err := s.storage.Delete(ctx, record.Filename); err != nil {
			s.log.Warn().Err(err).Str("key", record.Filename).Msg("blob delete failed, leaving for reconciliation")
		}
	}
	s.log.Info().Str("asset_id", record.ID).Msg("asset deleted")
	return nil
}

// PrepareUpload generates a storage key and a presigned PUT URL for a direct upload.
func (s *Service) PrepareUpload(ctx context.Context, req UploadRequest) (*UploadTarget, error) {
	name := strings.TrimSpace(req.FileName)
	if name == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"fileName is required", nil, "9e4f2c1a-6b3d-4e5f-8a7b-1c2d3e4f5a04")
	}
	if req.Size > s.cfg.MaxUploadBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("file exceeds max size of %d bytes", s.cfg.MaxUploadBytes), nil, "0b7c3d2e-1f4a-4b5c-9d6e-7f8a9b0c1d05")
	}
	if !s.storage.SupportsPresignedUploads() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotImplemented,
			"presigned uploads are not supported by the configured storage backend", nil, "4f5e6d7c-8b9a-4c1d-a2e3-f4a5b6c7d806")
	}

	key := s.storage.GenerateKey(name)
	uploadURL, err := s.storage.PresignPut(ctx, key, req.MimeType, s.cfg.UploadURLTTL)
	if err != nil {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"failed to generate presigned URL", err, "7a8b9c0d-1e2f-4a3b-8c4d-5e6f7a8b9c07", map[string]any{"key": key})
	}

	s.log.Debug().
		Str("key", key).
		Str("upload_url", telemetry.RedactURL(uploadURL)).
		Msg("presigned upload granted")

	return &UploadTarget{
		Key:       key,
		UploadURL: uploadURL,
		PublicURL: s.storage.PublicURL(key),
		ExpiresIn: int(s.cfg.UploadURLTTL.Seconds()),
	}, nil
}

// RecordUpload persists metadata for a blob uploaded through a presigned URL.
func (s *Service) RecordUpload(ctx context.Context, req RecordUploadRequest) (*Asset, error) {
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"key is required", nil, "2c3d4e5f-6a7b-4c8d-9e0f-1a2b3c4d5e08")
	}
	mimeType := strings.TrimSpace(req.MimeType)
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	return s.Create(ctx, NewAsset{
		Filename:         key,
		OriginalFilename: req.OriginalFilename,
		URL:              req.PublicURL,
		FileType:         req.FileType,
		MimeType:         mimeType,
		Size:             req.Size,
		Metadata:         req.Metadata,
	})
}

// AbandonUpload deletes a blob left behind by a failed direct upload. It reports
// whether the blob was removed; blobs referenced by a record are kept.
func (s *Service) AbandonUpload(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, KeyPrefix) || strings.Contains(key, "..") {
		return false, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"key must reference an asset upload", nil, "6e7f8a9b-0c1d-4e2f-a3b4-c5d6e7f8a909")
	}

	existing, err := s.repo.ExistingFilenames(ctx, []string{key})
	if err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to check asset references")
	}
	if existing[key] {
		return false, nil
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return false, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"failed to delete abandoned upload", err, "8a9b0c1d-2e3f-4a4b-b5c6-d7e8f9a0b10a", map[string]any{"key": key})
	}
	s.log.Info().Str("key", key).Msg("abandoned upload removed")
	return true, nil
}

// UploadFiles stores each file and its metadata in order, stopping at the first
// failure. A blob whose metadata write fails is deleted again.
func (s *Service) UploadFiles(ctx context.Context, files []UploadFile, meta Metadata) ([]UploadedAsset, error) {
	if len(files) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"No files provided", nil, "1b2c3d4e-5f6a-4b7c-8d9e-0f1a2b3c4d0b")
	}
	if err := validateMetadata(ctx, meta); err != nil {
		return nil, err
	}

	results := make([]UploadedAsset, 0, len(files))
	for _, file := range files {
		uploaded, err := s.uploadOne(ctx, file, meta)
		if err != nil {
			return results, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, fmt.Sprintf("Failed to upload %s", file.Name))
		}
		results = append(results, *uploaded)
	}
	return results, nil
}

func (s *Service) uploadOne(ctx context.Context, file UploadFile, meta Metadata) (*UploadedAsset, error) {
	if file.Size > s.cfg.MaxUploadBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("file exceeds max size of %d bytes", s.cfg.MaxUploadBytes), nil, "0b7c3d2e-1f4a-4b5c-9d6e-7f8a9b0c1d05")
	}

	body, contentType, err := sniffContentType(file)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to read upload", err, "3d4e5f6a-7b8c-4d9e-a0f1-b2c3d4e5f60c")
	}

	key := s.storage.GenerateKey(file.Name)
	if err := s.storage.Upload(ctx, key, body, file.Size, contentType); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"failed to store file", err, "5f6a7b8c-9d0e-4f1a-b2c3-d4e5f6a7b80d")
	}

	record, err := s.Create(ctx, NewAsset{
		Filename:         key,
		OriginalFilename: file.Name,
		URL:              s.storage.PublicURL(key),
		MimeType:         contentType,
		Size:             file.Size,
		Metadata:         meta,
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.Warn().Err(delErr).Str("key", key).Msg("compensating blob delete failed")
		}
		return nil, err
	}

	return &UploadedAsset{ID: record.ID, Filename: file.Name, URL: record.URL}, nil
}

// DownloadURL returns a time-limited GET URL for the given storage key.
func (s *Service) DownloadURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Filename is required", nil, "7b8c9d0e-1f2a-4b3c-8d4e-5f6a7b8c9d0e")
	}
	url, err := s.storage.PresignGet(ctx, key, s.cfg.DownloadURLTTL)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"Failed to generate download URL", err, "9d0e1f2a-3b4c-4d5e-a6f7-a8b9c0d1e20f")
	}
	return url, nil
}

// All returns every asset record in listing order: newest upload first, ties by id desc.
func (s *Service) All(ctx context.Context) ([]Asset, error) {
	records, err := s.repo.All(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load assets")
	}
	slices.SortStableFunc(records, func(a, b Asset) int {
		if c := b.UploadedAt.Compare(a.UploadedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return records, nil
}

// CheckStorage verifies the blob store is reachable.
func (s *Service) CheckStorage(ctx context.Context) error {
	if err := s.storage.Health(ctx); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("storage unreachable: %v", err), err, "b2c3d4e5-f6a7-4b8c-9d0e-1f2a3b4c5d10")
	}
	return nil
}

// CheckMetadata verifies the metadata store is reachable.
func (s *Service) CheckMetadata(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeDatabaseError,
			fmt.Sprintf("metadata store unreachable: %v", err), err, "c3d4e5f6-a7b8-4c9d-8e1f-2a3b4c5d6e11")
	}
	return nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}

func validateMetadata(ctx context.Context, meta Metadata) error {
	if strings.TrimSpace(meta.Event) == "" || strings.TrimSpace(meta.Date) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Missing required metadata fields", nil, "c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e10")
	}
	if !ValidDate(strings.TrimSpace(meta.Date)) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", meta.Date), nil, "e3f4a5b6-c7d8-4e9f-a0b1-c2d3e4f5a611")
	}
	return nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// sniffContentType keeps the declared type unless it is missing or generic, in
// which case the leading bytes decide.
func sniffContentType(file UploadFile) (io.Reader, string, error) {
	declared := strings.TrimSpace(file.ContentType)
	if declared != "" && declared != DefaultMimeType {
		return file.Body, declared, nil
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, "", err
	}
	head = head[:n]
	detected := mimetype.Detect(head).String()
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	return io.MultiReader(bytes.NewReader(head), file.Body), detected, nil
}
