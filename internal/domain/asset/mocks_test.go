package asset_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
)

type memoryRepo struct {
	mu        sync.Mutex
	records   []asset.Asset
	createErr error
	pingErr   error
}

func (r *memoryRepo) Create(_ context.Context, a *asset.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, *a)
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (*asset.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			out := rec
			return &out, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		fmt.Sprintf("asset %s not found", id), nil, "")
}

func (r *memoryRepo) sorted() []asset.Asset {
	out := append([]asset.Asset(nil), r.records...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out
}

func (r *memoryRepo) List(_ context.Context, q asset.ListQuery) ([]asset.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []asset.Asset{}
	for _, rec := range r.sorted() {
		if q.After != nil {
			before := rec.UploadedAt.Before(q.After.UploadedAt) ||
				(rec.UploadedAt.Equal(q.After.UploadedAt) && rec.ID < q.After.ID)
			if !before {
				continue
			}
		}
		out = append(out, rec)
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (r *memoryRepo) Search(_ context.Context, c asset.SearchCriteria) ([]asset.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []asset.Asset{}
	for _, rec := range r.sorted() {
		if c.Event != "" && !strings.Contains(rec.Event, c.Event) {
			continue
		}
		if c.DateFrom != "" && rec.Date < c.DateFrom {
			continue
		}
		if c.DateTo != "" && rec.Date > c.DateTo {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *memoryRepo) All(context.Context) ([]asset.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]asset.Asset(nil), r.records...), nil
}

func (r *memoryRepo) ExistingFilenames(_ context.Context, names []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, name := range names {
		for _, rec := range r.records {
			if rec.Filename == name {
				out[name] = true
			}
		}
	}
	return out, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return errors.New("missing")
}

func (r *memoryRepo) Ping(context.Context) error { return r.pingErr }

type fakeStorage struct {
	mu         sync.Mutex
	objects    map[string]asset.ObjectInfo
	deleted    []string
	presigned  bool
	uploadErr  error
	presignErr error
	healthErr  error
	types      map[string]string
	keySeq     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]asset.ObjectInfo{}, presigned: true, types: map[string]string{}}
}

func (s *fakeStorage) GenerateKey(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keySeq++
	key := fmt.Sprintf("assets/1714554000000-key%02d", s.keySeq)
	if ext := asset.Extension(name); ext != "" {
		key += "." + ext
	}
	return key
}

func (s *fakeStorage) Upload(_ context.Context, key string, body io.Reader, size int64, contentType string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = asset.ObjectInfo{Key: key, Size: size, LastModified: time.Now()}
	s.types[key] = contentType
	return nil
}

func (s *fakeStorage) PresignPut(_ context.Context, key, _ string, ttl time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return fmt.Sprintf("https://r2.example.com/bucket/%s?X-Amz-Expires=%d&X-Amz-Signature=abc", key, int(ttl.Seconds())), nil
}

func (s *fakeStorage) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://r2.example.com/bucket/%s?X-Amz-Expires=%d", key, int(ttl.Seconds())), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) List(_ context.Context, prefix string) ([]asset.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []asset.ObjectInfo{}
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (s *fakeStorage) PublicURL(key string) string { return "https://cdn.example.com/" + key }

func (s *fakeStorage) SupportsPresignedUploads() bool { return s.presigned }

func (s *fakeStorage) Health(context.Context) error { return s.healthErr }

type memoryStatsCache struct {
	stats       *asset.Stats
	gets        int
	invalidated int
}

func (c *memoryStatsCache) Get(context.Context) (*asset.Stats, bool, error) {
	c.gets++
	return c.stats, c.stats != nil, nil
}

func (c *memoryStatsCache) Set(_ context.Context, stats *asset.Stats) error {
	c.stats = stats
	return nil
}

func (c *memoryStatsCache) Invalidate(context.Context) error {
	c.stats = nil
	c.invalidated++
	return nil
}
