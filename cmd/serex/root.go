package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"serex/pkg/contracts"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "serex",
	Short: "serex - multi-target export for labeled series data",
	Long: `Serex turns one-dimensional labeled series into CSV, JSON, Excel
workbooks, Google Sheets updates, and rendered charts.

It can run as a one-shot exporter reading a series payload from a file,
or as an HTTP service with a series registry, export endpoints, chart
mounts, and a WebSocket event feed.`,
	Version: contracts.Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
