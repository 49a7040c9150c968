package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"serex/internal/app"
)

var serveFlags struct {
	port     int
	logLevel string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the serex export server",
	Long: `Start the HTTP export server with the configured settings.

The server exposes the series registry and export endpoints under /api,
chart mounts under /charts, a WebSocket event feed at /ws, and
Prometheus metrics at /metrics.

Examples:
  # Start with defaults
  serex serve

  # Override the listen port
  serex serve --port 9090

  # Override the log level
  serex serve --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "override listen port")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Flag overrides flow through the environment the config loader reads
	if serveFlags.port > 0 {
		os.Setenv("SEREX_SERVER_PORT", strconv.Itoa(serveFlags.port))
	}
	if serveFlags.logLevel != "" {
		os.Setenv("SEREX_LOGGING_LEVEL", serveFlags.logLevel)
	}
	if verbose {
		os.Setenv("SEREX_LOGGING_LEVEL", "debug")
	}

	application, err := app.NewApplication()
	if err != nil {
		return err
	}

	return application.Run()
}
