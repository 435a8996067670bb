package upload_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/domain/upload"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
)

type fakeClient struct {
	mu         sync.Mutex
	presigned  []upload.PresignRequest
	puts       []string
	putTypes   []string
	saved      []upload.MetadataRequest
	abandoned  []string
	presignErr map[string]error
	putErr     map[string]error
	saveErr    map[string]error
	putDelay   time.Duration
	inFlight   int32
	maxFlight  int32
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		presignErr: map[string]error{},
		putErr:     map[string]error{},
		saveErr:    map[string]error{},
	}
}

func (f *fakeClient) RequestUploadURL(_ context.Context, req upload.PresignRequest) (*upload.PresignedUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presigned = append(f.presigned, req)
	if err := f.presignErr[req.FileName]; err != nil {
		return nil, err
	}
	key := "assets/1714554000000-" + req.FileName
	return &upload.PresignedUpload{
		Success:      true,
		PresignedURL: "https://bucket.example.com/" + key + "?X-Amz-Signature=abc",
		Key:          key,
		PublicURL:    "https://cdn.example.com/" + key,
		ExpiresIn:    7200,
	}, nil
}

func (f *fakeClient) PutObject(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress upload.TransferProgress) error {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		cur := atomic.LoadInt32(&f.maxFlight)
		if n <= cur || atomic.CompareAndSwapInt32(&f.maxFlight, cur, n) {
			break
		}
	}
	if f.putDelay > 0 {
		select {
		case <-time.After(f.putDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	f.puts = append(f.puts, url)
	f.putTypes = append(f.putTypes, contentType)
	var putErr error
	for name, err := range f.putErr {
		if strings.Contains(url, name) {
			putErr = err
		}
	}
	f.mu.Unlock()
	if putErr != nil {
		return putErr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	half := int64(len(data)) / 2
	onProgress(half, size)
	onProgress(int64(len(data)), size)
	return nil
}

func (f *fakeClient) SaveMetadata(_ context.Context, req upload.MetadataRequest) (*asset.UploadedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.saveErr[req.OriginalFilename]; err != nil {
		return nil, err
	}
	f.saved = append(f.saved, req)
	return &asset.UploadedAsset{ID: "ast_" + req.OriginalFilename, Filename: req.Key, URL: req.PublicURL}, nil
}

func (f *fakeClient) AbandonUpload(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abandoned = append(f.abandoned, key)
	return nil
}

func memFile(name, mime string, size int) upload.File {
	data := bytes.Repeat([]byte{0xAB}, size)
	return upload.File{
		Name:     name,
		MimeType: mime,
		Size:     int64(size),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func batchMeta() asset.Metadata {
	return asset.Metadata{Event: "TechConf", Date: "2024-05-01", Photographer: "Alice", Tags: []string{"Keynote"}}
}

func TestUploadSingleImage(t *testing.T) {
	client := newFakeClient()
	orch := upload.NewOrchestrator(client, zerolog.Nop())

	var snapshots [][]upload.Progress
	result, err := orch.Upload(context.Background(), []upload.File{memFile("a.jpg", "image/jpeg", 2048)}, batchMeta(), upload.Options{
		OnProgress: func(p []upload.Progress) { snapshots = append(snapshots, p) },
	})
	require.NoError(t, err)
	require.Len(t, result.Assets, 1)
	assert.Equal(t, "ast_a.jpg", result.Assets[0].ID)

	require.Len(t, client.saved, 1)
	saved := client.saved[0]
	assert.Equal(t, asset.FileTypeImage, saved.FileType)
	assert.Equal(t, "image/jpeg", saved.MimeType)
	assert.Equal(t, int64(2048), saved.Size)
	assert.Equal(t, "TechConf", saved.Metadata.Event)
	assert.Equal(t, []string{"image/jpeg"}, client.putTypes)

	var values []int
	for _, snap := range snapshots {
		require.Len(t, snap, 1)
		values = append(values, snap[0].Progress)
	}
	assert.Equal(t, []int{0, 5, 20, 55, 90, 95, 100}, values)
	assert.Equal(t, upload.StatusCompleted, result.Progress[0].Status)
	assert.Empty(t, result.Warnings)
}

func TestUploadSnapshotsAreCopies(t *testing.T) {
	client := newFakeClient()
	orch := upload.NewOrchestrator(client, zerolog.Nop())

	var first []upload.Progress
	_, err := orch.Upload(context.Background(), []upload.File{memFile("a.jpg", "image/jpeg", 10)}, batchMeta(), upload.Options{
		OnProgress: func(p []upload.Progress) {
			if first == nil {
				first = p
			}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, upload.StatusPending, first[0].Status)
	assert.Equal(t, 0, first[0].Progress)
}

func TestUploadValidationMakesNoCalls(t *testing.T) {
	tests := []struct {
		name  string
		files []upload.File
		meta  asset.Metadata
	}{
		{name: "no files", meta: batchMeta()},
		{name: "missing event", files: []upload.File{memFile("a.jpg", "image/jpeg", 10)}, meta: asset.Metadata{Date: "2024-05-01"}},
		{name: "missing date", files: []upload.File{memFile("a.jpg", "image/jpeg", 10)}, meta: asset.Metadata{Event: "TechConf"}},
		{name: "malformed date", files: []upload.File{memFile("a.jpg", "image/jpeg", 10)}, meta: asset.Metadata{Event: "TechConf", Date: "05/01/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			orch := upload.NewOrchestrator(client, zerolog.Nop())

			result, err := orch.Upload(context.Background(), tt.files, tt.meta, upload.Options{})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
			assert.Empty(t, client.presigned)
			assert.Empty(t, client.puts)
		})
	}
}

func TestUploadPresignFailureStopsBatch(t *testing.T) {
	client := newFakeClient()
	client.presignErr["b.jpg"] = errors.New("500 - Internal Server Error")
	orch := upload.NewOrchestrator(client, zerolog.Nop())

	files := []upload.File{
		memFile("a.jpg", "image/jpeg", 10),
		memFile("b.jpg", "image/jpeg", 10),
		memFile("c.jpg", "image/jpeg", 10),
	}
	result, err := orch.Upload(context.Background(), files, batchMeta(), upload.Options{})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	require.NotNil(t, result)

	require.Len(t, result.Assets, 1)
	assert.Len(t, client.saved, 1)
	assert.Len(t, client.presigned, 2, "c.jpg must never start")

	assert.Equal(t, upload.StatusCompleted, result.Progress[0].Status)
	for _, p := range result.Progress[1:] {
		assert.Equal(t, upload.StatusError, p.Status)
		assert.Contains(t, p.Error, "Upload failed: Failed to get presigned URL")
	}
}

func TestUploadPutFailureSkipsMetadata(t *testing.T) {
	client := newFakeClient()
	client.putErr["a.jpg"] = errors.New("Upload failed with status: 403")
	orch := upload.NewOrchestrator(client, zerolog.Nop())

	result, err := orch.Upload(context.Background(), []upload.File{memFile("a.jpg", "image/jpeg", 10)}, batchMeta(), upload.Options{})
	require.Error(t, err)
	assert.Empty(t, client.saved)
	assert.Empty(t, client.abandoned)
	assert.Contains(t, result.Progress[0].Error, "403")
}

func TestUploadMetadataFailureAbandonsBlob(t *testing.T) {
	client := newFakeClient()
	client.saveErr["a.mp4"] = errors.New("500 - Failed to save metadata")
	orch := upload.NewOrchestrator(client, zerolog.Nop())

	result, err := orch.Upload(context.Background(), []upload.File{memFile("a.mp4", "", 10)}, batchMeta(), upload.Options{})
	require.Error(t, err)
	assert.Equal(t, []string{"assets/1714554000000-a.mp4"}, client.abandoned)
	assert.Equal(t, upload.StatusError, result.Progress[0].Status)
	assert.Equal(t, []string{"application/octet-stream"}, client.putTypes)
}

func TestUploadConcurrentPool(t *testing.T) {
	client := newFakeClient()
	client.putDelay = 20 * time.Millisecond
	orch := upload.NewOrchestrator(client, zerolog.Nop())

	var files []upload.File
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"} {
		files = append(files, memFile(name, "image/jpeg", 32))
	}
	result, err := orch.Upload(context.Background(), files, batchMeta(), upload.Options{Concurrency: 3})
	require.NoError(t, err)
	assert.Len(t, result.Assets, 6)
	assert.LessOrEqual(t, atomic.LoadInt32(&client.maxFlight), int32(3))
	for _, p := range result.Progress {
		assert.Equal(t, upload.StatusCompleted, p.Status)
		assert.Equal(t, 100, p.Progress)
	}
}

func TestUploadConcurrentFailureMarksRemaining(t *testing.T) {
	client := newFakeClient()
	client.presignErr["a.jpg"] = errors.New("boom")
	orch := upload.NewOrchestrator(client, zerolog.Nop())

	var files []upload.File
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		files = append(files, memFile(name, "image/jpeg", 8))
	}
	result, err := orch.Upload(context.Background(), files, batchMeta(), upload.Options{Concurrency: 2})
	require.Error(t, err)
	for _, p := range result.Progress {
		if p.Status != upload.StatusCompleted {
			assert.Equal(t, upload.StatusError, p.Status)
			assert.Equal(t, "Upload failed: Failed to get presigned URL: boom", p.Error)
		}
	}
	assert.Less(t, len(result.Assets), 4)
}

func TestUploadCancelledContext(t *testing.T) {
	client := newFakeClient()
	orch := upload.NewOrchestrator(client, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := orch.Upload(ctx, []upload.File{memFile("a.jpg", "image/jpeg", 8)}, batchMeta(), upload.Options{})
	require.Error(t, err)
	assert.Equal(t, "Upload cancelled", result.Progress[0].Error)
	assert.Empty(t, client.presigned)
}

func TestUploadReturnsSizeWarningsWithoutLoggingThem(t *testing.T) {
	client := newFakeClient()
	var logs bytes.Buffer
	orch := upload.NewOrchestrator(client, zerolog.New(&logs))

	large := memFile("keynote.mp4", "video/mp4", 64)
	large.Size = 150 << 20

	result, err := orch.Upload(context.Background(), []upload.File{large}, batchMeta(), upload.Options{})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Large files detected: keynote.mp4 (150 MB)")
	assert.NotContains(t, logs.String(), "Large files detected")
}
