package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serex/internal/shared/testutil"
	serr "serex/pkg/errors"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
	}{
		{
			name:       "handle nil error",
			err:        nil,
			wantStatus: 0,
		},
		{
			name:       "handle context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantTitle:  "Request Timeout",
		},
		{
			name:       "handle invalid option",
			err:        serr.InvalidOption("sep", "must not be NUL"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Invalid Option",
		},
		{
			name:       "handle not found",
			err:        serr.NotFound("series prices"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantTitle:  "Resource Not Found",
		},
		{
			name:       "handle type mismatch",
			err:        serr.TypeMismatch("value at position 2", fmt.Errorf("string does not conform to dtype int64")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeTypeMismatch,
			wantTitle:  "Type Mismatch",
		},
		{
			name:       "handle io failure",
			err:        serr.IOFailure("save csv", fmt.Errorf("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeIOFailure,
			wantTitle:  "Export Failed",
		},
		{
			name:       "handle wrapped export error",
			err:        fmt.Errorf("export series: %w", serr.NotFound("series x")),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantTitle:  "Resource Not Found",
		},
		{
			name:       "handle generic error",
			err:        fmt.Errorf("something went wrong"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/test", nil)

			handler.HandleError(w, r, tt.err)

			if tt.err == nil {
				assert.Equal(t, http.StatusOK, w.Code)
				assert.Zero(t, w.Body.Len())
				return
			}

			assert.Equal(t, tt.wantStatus, w.Code)

			var problem map[string]interface{}
			err := json.NewDecoder(w.Body).Decode(&problem)
			require.NoError(t, err)

			assert.Equal(t, tt.wantType, problem["type"])
			assert.Equal(t, tt.wantTitle, problem["title"])
			assert.Equal(t, float64(tt.wantStatus), problem["status"])
			assert.Equal(t, "/test", problem["instance"])
		})
	}
}

func TestErrorHandler_InvalidOptionCarriesField(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/series/prices/export", nil)

	handler.HandleError(w, r, serr.InvalidOption("format", "must be one of: column, row"))

	var problem map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&problem))

	assert.Equal(t, "INVALID_OPTION", problem["kind"])
	assert.Equal(t, "format", problem["option"])
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/series", nil)

	handler.HandlePanic(w, r, "boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, logHandler.ContainsMessage("panic recovered"))

	var problem map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&problem))
	assert.Equal(t, TypeInternal, problem["type"])
}

func TestErrorHandler_NotFound(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/nope", nil)

	handler.NotFound(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorHandler_MethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("PATCH", "/api/series", nil)

	handler.MethodNotAllowed(w, r)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&problem))
	assert.Contains(t, problem["detail"], "PATCH")
}
