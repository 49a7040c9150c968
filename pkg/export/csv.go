package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	serr "serex/pkg/errors"
	"serex/pkg/series"
)

// RenderCSV serializes the series as delimited text: one line per value
// in index order, fields joined by Sep, with a header line holding the
// column name when Header. The result carries no trailing line break.
// Pure: identical output for identical input, the series is never
// touched on a validation failure.
func RenderCSV(s series.View, opts CSVOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	records := make([][]string, 0, s.Len()+1)
	if opts.Header {
		if opts.Index {
			// Label column header stays empty, like a table corner cell
			records = append(records, []string{"", s.Name()})
		} else {
			records = append(records, []string{s.Name()})
		}
	}
	for i := 0; i < s.Len(); i++ {
		field, err := formatValue(s.DType(), i, s.Value(i))
		if err != nil {
			return "", err
		}
		if opts.Index {
			records = append(records, []string{formatLabel(s.Label(i)), field})
		} else {
			records = append(records, []string{field})
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = opts.Sep
	if err := w.WriteAll(records); err != nil {
		return "", serr.IOFailure("render csv", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ExportCSV renders the series and saves the bytes under FileName
// through the saver. Validation runs before any data is touched, so a
// bad option never reaches the saver.
func ExportCSV(ctx context.Context, s series.View, opts CSVOptions, saver Saver) (*Outcome, error) {
	out, err := RenderCSV(s, opts)
	if err != nil {
		return nil, err
	}

	data := []byte(out)
	if err := saver.Save(ctx, opts.FileName, data); err != nil {
		return nil, serr.IOFailure(fmt.Sprintf("save %s", opts.FileName), err)
	}
	return &Outcome{Format: FormatCSV, Destination: opts.FileName, Bytes: len(data)}, nil
}
