// Package export converts a series view into its external
// representations and hands side-effecting saves to a platform Saver.
//
// This package contains four exporters and the facade tying them together:
//
// CSV: value-per-line delimited text with an optional header line and an
// optional label column. RenderCSV is pure; ExportCSV saves through a Saver.
//
// JSON: a column-oriented single-key object or a row-oriented array of
// single-key objects. RenderJSON is pure; ExportJSON saves through a Saver.
//
// Excel: a single-column workbook sheet built with excelize. Always a side
// effect; there is no pure render.
//
// Sheets: the same single-column layout pushed to a Google Sheets range.
//
// Options are validated eagerly, before any series data is touched, so a
// bad option never produces partial output. Savers are injected: FileSaver
// writes durable files, HTTPSaver triggers a browser download.
//
// Example usage:
//
//	s, _ := series.NewInts("prices", []int64{1, 2, 3, 4})
//	e := export.Wrap(s)
//
//	// Pure render with default options
//	text, err := e.CSV()
//
//	// Save a workbook under the reports directory
//	saver := export.NewFileSaver("data/reports")
//	outcome, err := e.ExportExcel(ctx, saver)
package export
