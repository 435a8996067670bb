package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/framevault/framevault-server/internal/infrastructure/apiclient"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "framevault",
	Short: "FrameVault CLI - upload and browse event media",
	Long: `framevault talks to a FrameVault server.

It uploads photos and videos straight to object storage through presigned
URLs, then records their event metadata on the server.

Examples:
  # Upload a shoot with metadata from a file
  framevault upload --metadata shoot.yaml ./dcim/*.jpg

  # Upload with inline metadata, three files at a time
  framevault upload --event "Spring Gala" --date 2024-04-12 -c 3 ./dcim/*

  # Browse the gallery
  framevault gallery --event "Spring Gala" --tags stage,crowd
  framevault stats`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(galleryCmd)
	rootCmd.AddCommand(statsCmd)

	addClientFlags(rootCmd)
}

// addClientFlags registers the connection flags shared by every subcommand.
func addClientFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("server", envOr("FRAMEVAULT_SERVER", "http://localhost:8080"), "FrameVault server base URL")
	cmd.PersistentFlags().String("token", os.Getenv("FRAMEVAULT_TOKEN"), "Bearer token for protected endpoints")
	cmd.PersistentFlags().Duration("timeout", time.Minute, "Timeout for API calls (transfers are not limited)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func newAPIClient(cmd *cobra.Command) *apiclient.Client {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return apiclient.NewClient(server, apiclient.WithToken(token), apiclient.WithTimeout(timeout))
}

func newCLILogger(cmd *cobra.Command) zerolog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
