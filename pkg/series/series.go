package series

import (
	"fmt"
	"time"

	serr "serex/pkg/errors"
)

// DType identifies the declared element type of a Series.
type DType string

const (
	DTypeString DType = "string"
	DTypeInt    DType = "int64"
	DTypeFloat  DType = "float64"
	DTypeBool   DType = "bool"
	DTypeTime   DType = "time"
)

// DefaultName is the column name assigned when none is given,
// matching the positional naming used for unnamed columns.
const DefaultName = "0"

// View is the read-only surface the export layer consumes. Any data
// engine whose series satisfies View can be exported; the engine keeps
// ownership of the data and this layer never mutates it.
type View interface {
	// Name returns the column name identifying the series.
	Name() string
	// Len returns the number of values.
	Len() int
	// DType returns the declared element type.
	DType() DType
	// Value returns the value at position i in index order.
	Value(i int) interface{}
	// Label returns the index label at position i. Labels need not be
	// unique; export logic treats them positionally.
	Label(i int) interface{}
}

// Series is an immutable, ordered, labeled one-dimensional data
// container. It is constructed once from engine-supplied data and only
// read afterwards, which makes concurrent exports of the same Series
// safe without locking.
type Series struct {
	name   string
	dtype  DType
	values []interface{}
	labels []interface{}
}

// Option configures Series construction.
type Option func(*Series)

// WithLabels sets explicit index labels. The label count must match the
// value count or New fails.
func WithLabels(labels []interface{}) Option {
	return func(s *Series) {
		s.labels = labels
	}
}

// New builds a Series from engine-supplied data. The element type is
// declared, never inferred: every non-nil value must conform to dtype
// or New fails with a type mismatch. An empty name falls back to
// DefaultName. Missing labels default to positions 0..n-1.
func New(name string, dtype DType, values []interface{}, opts ...Option) (*Series, error) {
	if name == "" {
		name = DefaultName
	}
	if !validDType(dtype) {
		return nil, serr.InvalidOption("dtype", fmt.Sprintf("unknown dtype %q", dtype))
	}

	s := &Series{
		name:   name,
		dtype:  dtype,
		values: make([]interface{}, len(values)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.labels != nil && len(s.labels) != len(values) {
		return nil, serr.InvalidOption("labels",
			fmt.Sprintf("label count %d does not match value count %d", len(s.labels), len(values)))
	}
	if s.labels == nil {
		s.labels = make([]interface{}, len(values))
		for i := range s.labels {
			s.labels[i] = i
		}
	} else {
		labels := make([]interface{}, len(s.labels))
		copy(labels, s.labels)
		s.labels = labels
	}

	for i, v := range values {
		cv, err := conform(dtype, v)
		if err != nil {
			return nil, serr.TypeMismatch(fmt.Sprintf("value at position %d", i), err)
		}
		s.values[i] = cv
	}

	return s, nil
}

// NewInts builds an int64 Series. Convenience for engine adapters and tests.
func NewInts(name string, values []int64, opts ...Option) (*Series, error) {
	vs := make([]interface{}, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return New(name, DTypeInt, vs, opts...)
}

// NewFloats builds a float64 Series.
func NewFloats(name string, values []float64, opts ...Option) (*Series, error) {
	vs := make([]interface{}, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return New(name, DTypeFloat, vs, opts...)
}

// NewStrings builds a string Series.
func NewStrings(name string, values []string, opts ...Option) (*Series, error) {
	vs := make([]interface{}, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return New(name, DTypeString, vs, opts...)
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// Len returns the number of values.
func (s *Series) Len() int { return len(s.values) }

// DType returns the declared element type.
func (s *Series) DType() DType { return s.dtype }

// Value returns the value at position i.
func (s *Series) Value(i int) interface{} { return s.values[i] }

// Label returns the label at position i.
func (s *Series) Label(i int) interface{} { return s.labels[i] }

// Values returns a copy of the ordered value sequence.
func (s *Series) Values() []interface{} {
	vs := make([]interface{}, len(s.values))
	copy(vs, s.values)
	return vs
}

// Labels returns a copy of the ordered label sequence.
func (s *Series) Labels() []interface{} {
	ls := make([]interface{}, len(s.labels))
	copy(ls, s.labels)
	return ls
}

// String implements fmt.Stringer for log output.
func (s *Series) String() string {
	return fmt.Sprintf("Series(%s dtype=%s len=%d)", s.name, s.dtype, len(s.values))
}

func validDType(d DType) bool {
	switch d {
	case DTypeString, DTypeInt, DTypeFloat, DTypeBool, DTypeTime:
		return true
	}
	return false
}

// conform normalizes v to the canonical Go type for dtype. Nil is a
// missing value and conforms to every dtype. Declared typing is a
// boundary guard, not inference: a value of the wrong kind is an error,
// never a conversion beyond widening integer and float literals.
func conform(dtype DType, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch dtype {
	case DTypeString:
		if sv, ok := v.(string); ok {
			return sv, nil
		}
	case DTypeInt:
		switch iv := v.(type) {
		case int:
			return int64(iv), nil
		case int32:
			return int64(iv), nil
		case int64:
			return iv, nil
		case float64:
			// JSON decoding yields float64 for every number; accept
			// exact integers so wire payloads survive the round trip.
			if iv == float64(int64(iv)) {
				return int64(iv), nil
			}
		}
	case DTypeFloat:
		switch fv := v.(type) {
		case float64:
			return fv, nil
		case float32:
			return float64(fv), nil
		case int:
			return float64(fv), nil
		case int64:
			return float64(fv), nil
		}
	case DTypeBool:
		if bv, ok := v.(bool); ok {
			return bv, nil
		}
	case DTypeTime:
		switch tv := v.(type) {
		case time.Time:
			return tv, nil
		case string:
			t, err := time.Parse(time.RFC3339, tv)
			if err != nil {
				return nil, fmt.Errorf("value %q is not RFC3339 time: %w", tv, err)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("value %v (%T) does not conform to dtype %s", v, v, dtype)
}
