// Package plot binds series views to named mount points and renders
// them as PNG charts through go-chart. Constructing a session draws
// nothing; chart type selection and rendering happen on the session, so
// a bad mount or a non-numeric series surfaces at lookup or render
// time, never at bind time.
package plot

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	serr "serex/pkg/errors"
	"serex/pkg/series"
)

// Kind selects the chart type drawn by a session
type Kind string

const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
)

// Session binds a series view to a named mount point for later chart
// configuration and rendering.
type Session struct {
	view    series.View
	mountID string
	kind    Kind
	title   string
	width   int
	height  int
}

// NewSession binds view to mountID with the line chart default. The
// mount is not validated here.
func NewSession(v series.View, mountID string) *Session {
	return &Session{
		view:    v,
		mountID: mountID,
		kind:    KindLine,
	}
}

// MountID returns the bound mount point
func (s *Session) MountID() string { return s.mountID }

// View returns the bound series view
func (s *Session) View() series.View { return s.view }

// Kind returns the selected chart type
func (s *Session) Kind() Kind { return s.kind }

// Line selects the line chart type
func (s *Session) Line() *Session {
	s.kind = KindLine
	return s
}

// Bar selects the bar chart type
func (s *Session) Bar() *Session {
	s.kind = KindBar
	return s
}

// Title overrides the chart title. The column name is the default.
func (s *Session) Title(title string) *Session {
	s.title = title
	return s
}

// Size sets the pixel dimensions. Zero keeps the library defaults.
func (s *Session) Size(width, height int) *Session {
	s.width = width
	s.height = height
	return s
}

// Render draws the chart as PNG into w. Only numeric value dtypes
// render; labels become bar labels on bar charts.
func (s *Session) Render(w io.Writer) error {
	xs, ys, labels, err := s.points()
	if err != nil {
		return err
	}

	title := s.title
	if title == "" {
		title = s.view.Name()
	}

	switch s.kind {
	case KindBar:
		bars := make([]chart.Value, len(ys))
		for i, y := range ys {
			bars[i] = chart.Value{Value: y, Label: labels[i]}
		}
		ch := chart.BarChart{
			Title:      title,
			Width:      s.width,
			Height:     s.height,
			BarWidth:   40,
			Background: chart.Style{Padding: chart.Box{Top: 40}},
			Bars:       bars,
		}
		if err := ch.Render(chart.PNG, w); err != nil {
			return fmt.Errorf("render bar chart: %w", err)
		}
		return nil

	default:
		ch := chart.Chart{
			Title:      title,
			Width:      s.width,
			Height:     s.height,
			Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
			Series: []chart.Series{
				chart.ContinuousSeries{
					Name:    s.view.Name(),
					XValues: xs,
					YValues: ys,
					Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
				},
			},
		}
		if err := ch.Render(chart.PNG, w); err != nil {
			return fmt.Errorf("render line chart: %w", err)
		}
		return nil
	}
}

// points projects the series onto chart coordinates: position on x,
// numeric value on y, label text per point. Missing values are skipped.
func (s *Session) points() (xs, ys []float64, labels []string, err error) {
	dtype := s.view.DType()
	if dtype != series.DTypeInt && dtype != series.DTypeFloat {
		return nil, nil, nil, serr.TypeMismatch(
			fmt.Sprintf("series %s", s.view.Name()),
			fmt.Errorf("dtype %s is not numeric", dtype))
	}

	n := s.view.Len()
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	labels = make([]string, 0, n)
	for i := 0; i < n; i++ {
		v := s.view.Value(i)
		if v == nil {
			continue
		}
		var y float64
		switch nv := v.(type) {
		case int64:
			y = float64(nv)
		case float64:
			y = nv
		default:
			return nil, nil, nil, serr.TypeMismatch(
				fmt.Sprintf("value at position %d", i),
				fmt.Errorf("%T does not conform to dtype %s", v, dtype))
		}
		xs = append(xs, float64(i))
		ys = append(ys, y)
		labels = append(labels, fmt.Sprintf("%v", s.view.Label(i)))
	}
	return xs, ys, labels, nil
}
