package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/domain/upload"
)

func newTestCommand(t *testing.T, register func(*cobra.Command), args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addClientFlags(cmd)
	register(cmd)
	require.NoError(t, cmd.ParseFlags(args))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestLoadMetadataFileWithFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shoot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
event: Spring Gala
date: 2024-04-12
location: Main Hall
photographer: Ana
tags: [stage, crowd]
`), 0o644))

	cmd, _ := newTestCommand(t, addUploadFlags, "--metadata", path, "--photographer", "Ben", "--tags", "portrait")

	meta, err := loadMetadata(cmd)
	require.NoError(t, err)
	assert.Equal(t, "Spring Gala", meta.Event)
	assert.Equal(t, "2024-04-12", meta.Date)
	assert.Equal(t, "Main Hall", meta.Location)
	assert.Equal(t, "Ben", meta.Photographer)
	assert.Equal(t, []string{"portrait"}, meta.Tags)
}

func TestLoadMetadataRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event: [unterminated"), 0o644))

	cmd, _ := newTestCommand(t, addUploadFlags, "--metadata", path)
	_, err := loadMetadata(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse metadata file")
}

func TestCollectFilesSniffsContentType(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))

	files, err := collectFiles([]string{png, txt})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "cover.png", files[0].Name)
	assert.Equal(t, "image/png", files[0].MimeType)
	assert.Equal(t, "text/plain", files[1].MimeType)
	assert.Equal(t, int64(5), files[1].Size)

	rc, err := files[1].Open()
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	_, err = collectFiles([]string{dir})
	assert.ErrorContains(t, err, "is a directory")
	_, err = collectFiles([]string{filepath.Join(dir, "missing.jpg")})
	assert.Error(t, err)
}

func TestProgressPrinterSkipsSmallSteps(t *testing.T) {
	var out bytes.Buffer
	p := newProgressPrinter(&out)

	p.Print([]upload.Progress{{Filename: "a.jpg", Status: upload.StatusPending}})
	p.Print([]upload.Progress{{Filename: "a.jpg", Status: upload.StatusUploading, Progress: 5}})
	p.Print([]upload.Progress{{Filename: "a.jpg", Status: upload.StatusUploading, Progress: 9}})
	p.Print([]upload.Progress{{Filename: "a.jpg", Status: upload.StatusUploading, Progress: 20}})
	p.Print([]upload.Progress{{Filename: "a.jpg", Status: upload.StatusError, Progress: 20, Error: "Upload failed: boom"}})

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "[  5%] uploading  a.jpg")
	assert.Contains(t, string(lines[1]), "[ 20%]")
	assert.Contains(t, string(lines[2]), "error")
	assert.Contains(t, string(lines[2]), "Upload failed: boom")
}

func TestFilterFromFlagsValidation(t *testing.T) {
	cmd, _ := newTestCommand(t, addGalleryFlags, "--from", "12/04/2024")
	_, err := filterFromFlags(cmd)
	assert.ErrorContains(t, err, "invalid date")

	cmd, _ = newTestCommand(t, addGalleryFlags, "--type", "audio")
	_, err = filterFromFlags(cmd)
	assert.ErrorContains(t, err, "invalid file type")

	cmd, _ = newTestCommand(t, addGalleryFlags, "--type", "Video", "--tags", "a,b", "-q", "gala")
	f, err := filterFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, asset.FileTypeVideo, f.FileType)
	assert.Equal(t, []string{"a", "b"}, f.Tags)
	assert.Equal(t, "gala", f.Query)
}

func TestRunGalleryLocalFiltersFetchedPages(t *testing.T) {
	records := []asset.Asset{
		{ID: "ast_1", OriginalFilename: "stage.jpg", Event: "Gala", Date: "2024-04-12", FileType: asset.FileTypeImage, Tags: []string{"stage"}, UploadedAt: time.Now()},
		{ID: "ast_2", OriginalFilename: "crowd.mp4", Event: "Gala", Date: "2024-04-13", FileType: asset.FileTypeVideo, Tags: []string{"crowd"}, UploadedAt: time.Now()},
		{ID: "ast_3", OriginalFilename: "dinner.jpg", Event: "Dinner", Date: "2024-05-01", FileType: asset.FileTypeImage, UploadedAt: time.Now()},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assets", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"records": records})
	}))
	defer server.Close()

	cmd, out := newTestCommand(t, addGalleryFlags, "--server", server.URL, "--local", "--event", "Gala", "--facets")
	require.NoError(t, runGallery(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "crowd.mp4")
	assert.Contains(t, text, "stage.jpg")
	assert.NotContains(t, text, "dinner.jpg")
	assert.Contains(t, text, "Showing 2 of 3 assets")
	assert.Contains(t, text, "Events:        Dinner, Gala")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("crowd.mp4")), bytes.Index(out.Bytes(), []byte("stage.jpg")))
}

func TestRunStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(asset.Stats{
			TotalAssets:      4,
			TotalEvents:      2,
			TopPhotographers: []asset.PhotographerCount{{Name: "Ana", Count: 3}},
		})
	}))
	defer server.Close()

	cmd, out := newTestCommand(t, func(*cobra.Command) {}, "--server", server.URL)
	require.NoError(t, runStats(cmd, nil))
	assert.Contains(t, out.String(), "Total assets: 4")
	assert.Contains(t, out.String(), "Total events: 2")
	assert.Contains(t, out.String(), "Ana")
}
