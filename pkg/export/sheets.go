package export

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	serr "serex/pkg/errors"
	"serex/pkg/series"
)

// SheetsExporter pushes a series to a Google Sheets range as the same
// single-column layout the workbook exporter writes: column name first,
// values below it in index order.
type SheetsExporter struct {
	svc *sheets.Service
}

// NewSheetsExporter wraps an authenticated Sheets service
func NewSheetsExporter(svc *sheets.Service) *SheetsExporter {
	return &SheetsExporter{svc: svc}
}

// NewSheetsExporterFromCredentials builds the Sheets service from
// service account credentials JSON
func NewSheetsExporterFromCredentials(ctx context.Context, credentialsJSON []byte) (*SheetsExporter, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsExporter{svc: svc}, nil
}

// Export writes header and values into the spreadsheet range with a
// single values.update call, RAW input option. Single attempt; the API
// client owns transport retries.
func (e *SheetsExporter) Export(ctx context.Context, s series.View, opts SheetsOptions) (*Outcome, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	values := make([][]interface{}, 0, s.Len()+1)
	values = append(values, []interface{}{s.Name()})
	for i := 0; i < s.Len(); i++ {
		v, err := cellValue(s.DType(), i, s.Value(i))
		if err != nil {
			return nil, err
		}
		values = append(values, []interface{}{v})
	}

	valueRange := &sheets.ValueRange{Values: values}
	resp, err := e.svc.Spreadsheets.Values.Update(
		opts.SpreadsheetID,
		opts.Range,
		valueRange,
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return nil, serr.IOFailure(fmt.Sprintf("update spreadsheet %s", opts.SpreadsheetID), err)
	}

	return &Outcome{
		Format:      FormatSheets,
		Destination: fmt.Sprintf("%s/%s", opts.SpreadsheetID, opts.Range),
		Cells:       resp.UpdatedCells,
	}, nil
}
