package export

import (
	"context"

	"serex/pkg/plot"
	"serex/pkg/series"
)

// Exportable attaches the export and plot operations to any series
// view. It owns no state beyond the embedded view, so wrapping is free
// and safe to repeat.
type Exportable struct {
	series.View
}

// Wrap attaches the export surface to a view
func Wrap(v series.View) Exportable {
	return Exportable{View: v}
}

// CSV renders the series as delimited text with the given options, or
// the defaults when none are given.
func (e Exportable) CSV(opts ...CSVOptions) (string, error) {
	return RenderCSV(e.View, firstOr(opts, DefaultCSVOptions))
}

// JSON renders the series as the column or row structure
func (e Exportable) JSON(opts ...JSONOptions) (interface{}, error) {
	return RenderJSON(e.View, firstOr(opts, DefaultJSONOptions))
}

// ExportCSV saves the rendered CSV through the saver
func (e Exportable) ExportCSV(ctx context.Context, saver Saver, opts ...CSVOptions) (*Outcome, error) {
	return ExportCSV(ctx, e.View, firstOr(opts, DefaultCSVOptions), saver)
}

// ExportJSON saves the marshaled JSON through the saver
func (e Exportable) ExportJSON(ctx context.Context, saver Saver, opts ...JSONOptions) (*Outcome, error) {
	return ExportJSON(ctx, e.View, firstOr(opts, DefaultJSONOptions), saver)
}

// ExportExcel saves the workbook through the saver
func (e Exportable) ExportExcel(ctx context.Context, saver Saver, opts ...ExcelOptions) (*Outcome, error) {
	return ExportExcel(ctx, e.View, firstOr(opts, DefaultExcelOptions), saver)
}

// Plot binds the series to a named mount point and returns the chart
// session for chart type selection and rendering. Nothing is drawn yet.
func (e Exportable) Plot(mountID string) *plot.Session {
	return plot.NewSession(e.View, mountID)
}

// firstOr returns the first supplied options value or the default
func firstOr[T any](opts []T, def func() T) T {
	if len(opts) > 0 {
		return opts[0]
	}
	return def()
}
