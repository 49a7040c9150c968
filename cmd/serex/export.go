package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"serex/pkg/contracts/domain"
	serr "serex/pkg/errors"
	"serex/pkg/export"
)

var exportFlags struct {
	input     string
	format    string
	out       string
	header    bool
	sep       string
	index     bool
	layout    string
	sheetName string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a series payload to a file",
	Long: `Export a series payload to CSV, JSON, or an Excel workbook.

The payload is a JSON document with the series name, declared dtype,
optional labels, and values:

  {"name":"prices","dtype":"int64","labels":["a","b"],"values":[1,2]}

Examples:
  # Export to CSV next to the payload
  serex export --input series.json

  # Row-layout JSON from stdin
  cat series.json | serex export --input - --format json --layout row

  # Excel workbook with a named sheet
  serex export --input series.json --format xlsx --sheet Prices --out report.xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFlags.input, "input", "i", "", "series payload file, or - for stdin (required)")
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "csv", "export format (csv, json, xlsx)")
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", "output file (default <name>.<format>)")
	exportCmd.Flags().BoolVar(&exportFlags.header, "header", true, "include the name header row (csv)")
	exportCmd.Flags().StringVar(&exportFlags.sep, "sep", "", "field separator, a single character (csv)")
	exportCmd.Flags().BoolVar(&exportFlags.index, "index", false, "include the label column (csv)")
	exportCmd.Flags().StringVar(&exportFlags.layout, "layout", "", "JSON layout (column, row)")
	exportCmd.Flags().StringVar(&exportFlags.sheetName, "sheet", "", "sheet name (xlsx)")

	exportCmd.MarkFlagRequired("input")
}

func runExport(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(exportFlags.input)
	if err != nil {
		return err
	}

	s, err := payload.ToSeries()
	if err != nil {
		return err
	}

	out := exportFlags.out
	if out == "" {
		out = s.Name() + "." + exportFlags.format
	}

	saver := export.NewFileSaver(filepath.Dir(out))
	fileName := filepath.Base(out)
	ctx := context.Background()

	var outcome *export.Outcome
	switch export.Format(exportFlags.format) {
	case export.FormatCSV:
		opts := export.DefaultCSVOptions()
		opts.Header = exportFlags.header
		opts.Index = exportFlags.index
		opts.FileName = fileName
		if exportFlags.sep != "" {
			if utf8.RuneCountInString(exportFlags.sep) != 1 {
				return serr.InvalidOption("sep", "must be a single character")
			}
			r, _ := utf8.DecodeRuneInString(exportFlags.sep)
			opts.Sep = r
		}
		outcome, err = export.ExportCSV(ctx, s, opts, saver)

	case export.FormatJSON:
		opts := export.DefaultJSONOptions()
		if exportFlags.layout != "" {
			opts.Format = exportFlags.layout
		}
		opts.FileName = fileName
		outcome, err = export.ExportJSON(ctx, s, opts, saver)

	case export.FormatExcel:
		opts := export.DefaultExcelOptions()
		if exportFlags.sheetName != "" {
			opts.SheetName = exportFlags.sheetName
		}
		opts.FileName = fileName
		outcome, err = export.ExportExcel(ctx, s, opts, saver)

	default:
		return serr.InvalidOption("format", fmt.Sprintf("unsupported format %q", exportFlags.format))
	}
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d bytes)\n", filepath.Join(filepath.Dir(out), outcome.Destination), outcome.Bytes)
	return nil
}

// readPayload loads the series payload from a file or stdin
func readPayload(input string) (domain.SeriesPayload, error) {
	var payload domain.SeriesPayload

	var data []byte
	var err error
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return payload, fmt.Errorf("read payload: %w", err)
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}
