package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/domain/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload photos and videos",
	Long: `Upload files directly to storage and record their metadata.

Event and date are required, either in a --metadata YAML file or as flags.
Flags override values read from the file. Press Ctrl+C to cancel; files that
have not finished are reported as failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	addUploadFlags(uploadCmd)
}

func addUploadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("metadata", "m", "", "YAML file with event, date, location, photographer, tags and description")
	cmd.Flags().String("event", "", "Event name")
	cmd.Flags().String("date", "", "Event date (YYYY-MM-DD)")
	cmd.Flags().String("location", "", "Event location")
	cmd.Flags().String("photographer", "", "Photographer name")
	cmd.Flags().StringSlice("tags", nil, "Comma separated tags")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().IntP("concurrency", "c", 1, "Files transferred at the same time")
}

func runUpload(cmd *cobra.Command, args []string) error {
	meta, err := loadMetadata(cmd)
	if err != nil {
		return err
	}
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, warning := range upload.SizeWarnings(files) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	printer := newProgressPrinter(out)
	orchestrator := upload.NewOrchestrator(newAPIClient(cmd), newCLILogger(cmd))

	result, err := orchestrator.Upload(ctx, files, meta, upload.Options{
		Concurrency: concurrency,
		OnProgress:  printer.Print,
	})
	if result != nil {
		fmt.Fprintf(out, "\n%d of %d files uploaded\n", len(result.Assets), len(files))
		for _, uploaded := range result.Assets {
			fmt.Fprintf(out, "  %s  %s\n", uploaded.ID, uploaded.URL)
		}
	}
	return err
}

// loadMetadata reads the optional metadata file and applies flag overrides.
func loadMetadata(cmd *cobra.Command) (asset.Metadata, error) {
	var meta asset.Metadata

	if path, _ := cmd.Flags().GetString("metadata"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return meta, fmt.Errorf("read metadata file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &meta); err != nil {
			return meta, fmt.Errorf("parse metadata file %s: %w", path, err)
		}
	}

	overrides := map[string]*string{
		"event":        &meta.Event,
		"date":         &meta.Date,
		"location":     &meta.Location,
		"photographer": &meta.Photographer,
		"description":  &meta.Description,
	}
	for name, field := range overrides {
		if cmd.Flags().Changed(name) {
			*field, _ = cmd.Flags().GetString(name)
		}
	}
	if cmd.Flags().Changed("tags") {
		meta.Tags, _ = cmd.Flags().GetStringSlice("tags")
	}
	return meta, nil
}

// collectFiles stats each path and sniffs its content type.
func collectFiles(paths []string) ([]upload.File, error) {
	files := make([]upload.File, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
		mtype, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, fmt.Errorf("detect content type of %s: %w", path, err)
		}
		mimeType, _, _ := strings.Cut(mtype.String(), ";")

		files = append(files, upload.File{
			Name:     filepath.Base(path),
			MimeType: mimeType,
			Size:     info.Size(),
			Open: func() (io.ReadCloser, error) {
				return os.Open(path)
			},
		})
	}
	return files, nil
}

// progressPrinter writes a line whenever a file changes status or advances
// by at least progressStep percent.
type progressPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	last map[int]upload.Progress
}

const progressStep = 10

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, last: make(map[int]upload.Progress)}
}

func (p *progressPrinter) Print(snapshot []upload.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, current := range snapshot {
		prev, seen := p.last[i]
		if seen && prev.Status == current.Status && current.Progress-prev.Progress < progressStep {
			continue
		}
		if !seen && current.Status == upload.StatusPending {
			p.last[i] = current
			continue
		}
		p.last[i] = current

		line := fmt.Sprintf("[%3d%%] %-10s %s", current.Progress, current.Status, current.Filename)
		if current.Error != "" {
			line += ": " + current.Error
		}
		fmt.Fprintln(p.out, line)
	}
}
