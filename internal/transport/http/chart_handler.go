package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "serex/internal/errors"
	"serex/internal/middleware"
	serr "serex/pkg/errors"
	"serex/pkg/plot"
)

// ChartHandler serves mounted chart sessions as PNG images.
type ChartHandler struct {
	registry     *plot.Registry
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validator    *middleware.QueryParamValidator

	// renderMu serializes renders; resizing mutates the session
	renderMu sync.Mutex
}

// NewChartHandler creates a new chart handler
func NewChartHandler(registry *plot.Registry, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		registry:     registry,
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
		validator:    middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the chart routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMounts)
	r.Route("/{mountID}", func(r chi.Router) {
		r.Get("/", h.RenderChart)
		r.Delete("/", h.UnmountChart)
	})

	return r
}

// ListMounts handles GET /charts
func (h *ChartHandler) ListMounts(w http.ResponseWriter, r *http.Request) {
	mounts := h.registry.Mounts()

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   mounts,
		"count":  len(mounts),
	})
}

// RenderChart handles GET /charts/{mountID}. Optional width and height
// parameters override the mounted size for this render.
func (h *ChartHandler) RenderChart(w http.ResponseWriter, r *http.Request) {
	mountID := chi.URLParam(r, "mountID")

	width, ok := h.validator.ValidateInt(w, r, "width", 64, 4096, 0)
	if !ok {
		return
	}
	height, ok := h.validator.ValidateInt(w, r, "height", 64, 4096, 0)
	if !ok {
		return
	}

	session, err := h.registry.Lookup(mountID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Render to a buffer first so failures still get a proper error
	// response instead of a half-written image.
	var buf bytes.Buffer
	h.renderMu.Lock()
	if width > 0 || height > 0 {
		session.Size(width, height)
	}
	renderErr := session.Render(&buf)
	h.renderMu.Unlock()

	if renderErr != nil {
		h.errorHandler.HandleError(w, r, renderErr)
		return
	}

	h.logger.DebugContext(r.Context(), "chart rendered",
		slog.String("mount_id", mountID),
		slog.Int("bytes", buf.Len()),
	)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// UnmountChart handles DELETE /charts/{mountID}
func (h *ChartHandler) UnmountChart(w http.ResponseWriter, r *http.Request) {
	mountID := chi.URLParam(r, "mountID")

	if !h.registry.Unmount(mountID) {
		h.errorHandler.HandleError(w, r, serr.NotFound("chart mount "+mountID))
		return
	}

	h.logger.InfoContext(r.Context(), "chart unmounted",
		slog.String("mount_id", mountID),
	)

	render.NoContent(w, r)
}
