package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"serex/pkg/series"
)

// recordingSaver captures save calls so tests can assert on what the
// exporters hand to the platform layer.
type recordingSaver struct {
	calls int
	name  string
	data  []byte
	err   error
}

func (s *recordingSaver) Save(_ context.Context, nameOrPath string, data []byte) error {
	s.calls++
	s.name = nameOrPath
	s.data = append([]byte(nil), data...)
	return s.err
}

// badView declares an int dtype but serves string values, the foreign
// View shape the type mismatch guard exists for.
type badView struct{}

func (badView) Name() string            { return "bad" }
func (badView) Len() int                { return 1 }
func (badView) DType() series.DType     { return series.DTypeInt }
func (badView) Value(i int) interface{} { return "nope" }
func (badView) Label(i int) interface{} { return i }

func mustInts(t *testing.T, name string, values []int64) *series.Series {
	t.Helper()
	s, err := series.NewInts(name, values)
	require.NoError(t, err)
	return s
}
