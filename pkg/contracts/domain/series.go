// Package domain contains the wire-level domain contracts shared by the
// HTTP transport, the CLI, and embedding applications.
package domain

import (
	"serex/pkg/series"
)

// SeriesPayload is the structured wire form of a series snapshot. The
// engine side supplies fully-specified data; decoding a payload is
// shape validation only, never parsing or inference.
type SeriesPayload struct {
	Name   string        `json:"name"`
	DType  string        `json:"dtype" validate:"required,oneof=string int64 float64 bool time"`
	Labels []interface{} `json:"labels,omitempty"`
	Values []interface{} `json:"values" validate:"required"`
}

// ToSeries builds the immutable Series the payload describes. The
// series constructor owns conformance checking, so a payload whose
// values disagree with the declared dtype fails here with the same
// typed errors the Go API raises.
func (p SeriesPayload) ToSeries() (*series.Series, error) {
	var opts []series.Option
	if p.Labels != nil {
		opts = append(opts, series.WithLabels(p.Labels))
	}
	return series.New(p.Name, series.DType(p.DType), p.Values, opts...)
}

// FromSeries captures a snapshot back into its wire form.
func FromSeries(s *series.Series) SeriesPayload {
	return SeriesPayload{
		Name:   s.Name(),
		DType:  string(s.DType()),
		Labels: s.Labels(),
		Values: s.Values(),
	}
}
