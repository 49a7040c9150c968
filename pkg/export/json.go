package export

import (
	"context"
	"encoding/json"
	"fmt"

	serr "serex/pkg/errors"
	"serex/pkg/series"
)

// RenderJSON returns the column or row structure for the series. The
// column layout is a single-key object mapping the column name to the
// ordered value array, labels not included. The row layout is an array
// of single-key objects, one per value, keyed by the column name. Pure.
func RenderJSON(s series.View, opts JSONOptions) (interface{}, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	switch opts.Format {
	case JSONColumn:
		values := make([]interface{}, s.Len())
		for i := 0; i < s.Len(); i++ {
			v, err := cellValue(s.DType(), i, s.Value(i))
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return map[string]interface{}{s.Name(): values}, nil

	case JSONRow:
		rows := make([]map[string]interface{}, s.Len())
		for i := 0; i < s.Len(); i++ {
			v, err := cellValue(s.DType(), i, s.Value(i))
			if err != nil {
				return nil, err
			}
			rows[i] = map[string]interface{}{s.Name(): v}
		}
		return rows, nil
	}

	// Validate guarantees the closed set
	return nil, serr.InvalidOption("format", fmt.Sprintf("unknown format %q", opts.Format))
}

// ExportJSON renders, marshals, and saves the structure under FileName
// through the saver.
func ExportJSON(ctx context.Context, s series.View, opts JSONOptions, saver Saver) (*Outcome, error) {
	v, err := RenderJSON(s, opts)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, serr.IOFailure("marshal json", err)
	}
	if err := saver.Save(ctx, opts.FileName, data); err != nil {
		return nil, serr.IOFailure(fmt.Sprintf("save %s", opts.FileName), err)
	}
	return &Outcome{Format: FormatJSON, Destination: opts.FileName, Bytes: len(data)}, nil
}
