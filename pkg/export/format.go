package export

import (
	"fmt"
	"strconv"
	"time"

	serr "serex/pkg/errors"
	"serex/pkg/series"
)

// formatFloat formats a float64 with the shortest exact representation
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInt formats an int64 in base 10
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatValue returns the locale-independent text form of a series
// value. Nil is a missing value and becomes the empty field. A value
// whose Go type disagrees with the declared dtype is a type mismatch;
// series.New conforms its values, so this guards foreign View
// implementations.
func formatValue(dtype series.DType, i int, v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	switch dtype {
	case series.DTypeString:
		if sv, ok := v.(string); ok {
			return sv, nil
		}
	case series.DTypeInt:
		if iv, ok := v.(int64); ok {
			return formatInt(iv), nil
		}
	case series.DTypeFloat:
		if fv, ok := v.(float64); ok {
			return formatFloat(fv), nil
		}
	case series.DTypeBool:
		if bv, ok := v.(bool); ok {
			return formatBool(bv), nil
		}
	case series.DTypeTime:
		if tv, ok := v.(time.Time); ok {
			return tv.Format(time.RFC3339), nil
		}
	}
	return "", mismatch(dtype, i, v)
}

// cellValue returns the native cell form of a series value for JSON,
// workbook, and spreadsheet targets, so numbers stay numbers in the
// output. Times become RFC3339 text, missing values nil.
func cellValue(dtype series.DType, i int, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch dtype {
	case series.DTypeString:
		if sv, ok := v.(string); ok {
			return sv, nil
		}
	case series.DTypeInt:
		if iv, ok := v.(int64); ok {
			return iv, nil
		}
	case series.DTypeFloat:
		if fv, ok := v.(float64); ok {
			return fv, nil
		}
	case series.DTypeBool:
		if bv, ok := v.(bool); ok {
			return bv, nil
		}
	case series.DTypeTime:
		if tv, ok := v.(time.Time); ok {
			return tv.Format(time.RFC3339), nil
		}
	}
	return nil, mismatch(dtype, i, v)
}

func mismatch(dtype series.DType, i int, v interface{}) error {
	return serr.TypeMismatch(fmt.Sprintf("value at position %d", i),
		fmt.Errorf("%T does not conform to dtype %s", v, dtype))
}

// formatLabel returns the text form of an index label. Labels carry no
// declared dtype; known kinds format like values, anything else falls
// through fmt.
func formatLabel(v interface{}) string {
	switch lv := v.(type) {
	case nil:
		return ""
	case string:
		return lv
	case int:
		return strconv.Itoa(lv)
	case int64:
		return formatInt(lv)
	case float64:
		return formatFloat(lv)
	case bool:
		return formatBool(lv)
	case time.Time:
		return lv.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", lv)
	}
}
