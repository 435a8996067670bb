package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framevault/framevault-server/internal/domain/asset"
)

func TestBuildUniversalOptions(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantAddrs []string
		wantDB    int
		wantPass  string
		wantErr   bool
	}{
		{name: "single url", raw: "redis://:secret@cache:6379/2", wantAddrs: []string{"cache:6379"}, wantDB: 2, wantPass: "secret"},
		{name: "plain hosts", raw: "a:6379, b:6379", wantAddrs: []string{"a:6379", "b:6379"}},
		{name: "empty", raw: " , ", wantErr: true},
		{name: "bad url", raw: "redis://cache:6379/notadb", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := buildUniversalOptions(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddrs, opts.Addrs)
			assert.Equal(t, tt.wantDB, opts.DB)
			assert.Equal(t, tt.wantPass, opts.Password)
		})
	}
}

func TestNewStatsCacheFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewStatsCache(ctx, "redis://127.0.0.1:1/0", time.Second, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewStatsCache(ctx, "", time.Second, zerolog.Nop())
	assert.Error(t, err)
}

func newMiniredisCache(t *testing.T, ttl time.Duration) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := NewStatsCache(context.Background(), "redis://"+mr.Addr()+"/0", ttl, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestStatsCacheRoundTrip(t *testing.T) {
	cache, mr := newMiniredisCache(t, 30*time.Second)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	uploaded := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stats := &asset.Stats{
		TotalAssets:      12,
		TotalEvents:      3,
		TopPhotographers: []asset.PhotographerCount{{Name: "Alice", Count: 7}},
		RecentUploads: []asset.Asset{{
			ID:         "ast_1",
			Event:      "TechConf",
			Date:       "2024-05-01",
			Tags:       []string{"Keynote"},
			UploadedAt: uploaded,
		}},
	}
	require.NoError(t, cache.Set(ctx, stats))
	assert.Equal(t, 30*time.Second, mr.TTL(statsKey))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, got.TotalAssets)
	assert.Equal(t, 3, got.TotalEvents)
	assert.Equal(t, stats.TopPhotographers, got.TopPhotographers)
	require.Len(t, got.RecentUploads, 1)
	assert.Equal(t, "ast_1", got.RecentUploads[0].ID)
	assert.Equal(t, []string{"Keynote"}, got.RecentUploads[0].Tags)
	assert.True(t, uploaded.Equal(got.RecentUploads[0].UploadedAt))

	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCacheExpiresAndDiscardsBadEntries(t *testing.T) {
	cache, mr := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &asset.Stats{TotalAssets: 1}))
	mr.FastForward(2 * time.Minute)
	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mr.Set(statsKey, "{not json"))
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Ping(ctx))
	mr.Close()
	_, _, err = cache.Get(ctx)
	assert.Error(t, err)
}
