package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/domain/gallery"
	"github.com/framevault/framevault-server/internal/domain/upload"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Browse and filter the collection",
	Long: `List assets matching a free-text query and structured filters.

By default the server filters. With --local the whole collection is fetched
page by page and filtered on this machine.`,
	RunE: runGallery,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	RunE:  runStats,
}

func init() {
	addGalleryFlags(galleryCmd)
}

func addGalleryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "", "Free-text search (case-insensitive)")
	cmd.Flags().String("event", "", "Event name, or \"all\"")
	cmd.Flags().String("photographer", "", "Photographer name, or \"all\"")
	cmd.Flags().String("type", "", "File type: image, video or all")
	cmd.Flags().StringSlice("tags", nil, "Match assets carrying any of these tags")
	cmd.Flags().String("from", "", "Earliest event date (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("to", "", "Latest event date (YYYY-MM-DD, inclusive)")
	cmd.Flags().Bool("local", false, "Fetch everything and filter locally")
	cmd.Flags().Bool("facets", false, "Print the available events, photographers and tags")
}

func filterFromFlags(cmd *cobra.Command) (gallery.FilterState, error) {
	query, _ := cmd.Flags().GetString("query")
	event, _ := cmd.Flags().GetString("event")
	photographer, _ := cmd.Flags().GetString("photographer")
	fileType, _ := cmd.Flags().GetString("type")
	tags, _ := cmd.Flags().GetStringSlice("tags")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	for _, date := range []string{from, to} {
		if date != "" && !asset.ValidDate(date) {
			return gallery.FilterState{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
	}
	if fileType != "" && fileType != gallery.AllValues {
		if _, ok := asset.ParseFileType(fileType); !ok {
			return gallery.FilterState{}, fmt.Errorf("invalid file type %q", fileType)
		}
	}

	return gallery.FilterState{
		Query:        query,
		Event:        event,
		Photographer: photographer,
		FileType:     asset.FileType(strings.ToLower(fileType)),
		Tags:         tags,
		DateFrom:     from,
		DateTo:       to,
	}, nil
}

func runGallery(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	local, _ := cmd.Flags().GetBool("local")
	showFacets, _ := cmd.Flags().GetBool("facets")
	client := newAPIClient(cmd)

	var (
		records []asset.Asset
		total   int
		facets  gallery.Facets
	)
	if local {
		all, err := client.ListAllAssets(cmd.Context())
		if err != nil {
			return err
		}
		records = gallery.Apply(all, filter)
		total = len(all)
		facets = gallery.BuildFacets(all)
	} else {
		result, err := client.Gallery(cmd.Context(), filter)
		if err != nil {
			return err
		}
		records, total, facets = result.Records, result.Total, result.Facets
	}

	out := cmd.OutOrStdout()
	printAssets(out, records)
	fmt.Fprintf(out, "\nShowing %d of %d assets\n", len(records), total)
	if showFacets {
		fmt.Fprintf(out, "\nEvents:        %s\n", strings.Join(facets.Events, ", "))
		fmt.Fprintf(out, "Photographers: %s\n", strings.Join(facets.Photographers, ", "))
		fmt.Fprintf(out, "Tags:          %s\n", strings.Join(facets.Tags, ", "))
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := newAPIClient(cmd).Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total assets: %d\n", stats.TotalAssets)
	fmt.Fprintf(out, "Total events: %d\n", stats.TotalEvents)
	if len(stats.TopPhotographers) > 0 {
		fmt.Fprintln(out, "\nTop photographers:")
		for _, p := range stats.TopPhotographers {
			fmt.Fprintf(out, "  %-24s %d\n", p.Name, p.Count)
		}
	}
	if len(stats.RecentUploads) > 0 {
		fmt.Fprintln(out, "\nRecent uploads:")
		printAssets(out, stats.RecentUploads)
	}
	return nil
}

func printAssets(out io.Writer, records []asset.Asset) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tEVENT\tFILE\tTYPE\tSIZE\tPHOTOGRAPHER\tTAGS")
	for _, a := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.Date, a.Event, a.OriginalFilename, a.FileType,
			upload.FormatFileSize(a.Size), a.Photographer, strings.Join(a.Tags, ","))
	}
	w.Flush()
}
