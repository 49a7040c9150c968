package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "serex/internal/errors"
	"serex/internal/services"
	"serex/internal/store"
	api "serex/pkg/contracts/api/v1"
	"serex/pkg/contracts/domain"
	serr "serex/pkg/errors"
	"serex/pkg/export"
	"serex/pkg/plot"
)

// SeriesHandler handles the series registry and export endpoints with
// RFC 7807 error responses.
type SeriesHandler struct {
	service      *services.ExportService
	registry     *plot.Registry
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(service *services.ExportService, registry *plot.Registry, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SeriesHandler {
	return &SeriesHandler{
		service:      service,
		registry:     registry,
		logger:       logger.With(slog.String("component", "series_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the series routes
func (h *SeriesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.RegisterSeries)
	r.Get("/", h.ListSeries)

	r.Route("/{name}", func(r chi.Router) {
		r.Use(h.SeriesCtx)
		r.Get("/", h.GetSeries)
		r.Delete("/", h.DeleteSeries)
		r.Get("/render", h.RenderSeries)
		r.Get("/export", h.ExportSeries)
		r.Post("/export/bundle", h.ExportBundle)
		r.Post("/export/sheets", h.ExportSheets)
		r.Post("/plot", h.MountPlot)
	})

	return r
}

// SeriesCtx validates the name parameter before the sub-routes run
func (h *SeriesHandler) SeriesCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			h.errorHandler.HandleError(w, r, serr.InvalidOption("name", "series name is required"))
			return
		}
		if len(name) > 128 {
			h.errorHandler.HandleError(w, r, serr.InvalidOption("name", "series name exceeds 128 characters"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RegisterSeries handles POST /api/series
func (h *SeriesHandler) RegisterSeries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req api.SeriesRegisterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, serr.InvalidOption("body", "invalid request body"))
		return
	}
	if err := validateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	s, err := req.ToSeries()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	record := h.service.Register(r.Context(), s)

	h.logger.InfoContext(r.Context(), "series registered",
		slog.String("request_id", reqID),
		slog.String("series", s.Name()),
		slog.String("dtype", string(s.DType())),
		slog.Int("length", s.Len()),
	)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summarize(record),
	})
}

// ListSeries handles GET /api/series
func (h *SeriesHandler) ListSeries(w http.ResponseWriter, r *http.Request) {
	records := h.service.Store().List()

	summaries := make([]domain.SeriesSummary, len(records))
	for i, record := range records {
		summaries[i] = summarize(record)
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summaries,
		"count":  len(summaries),
	})
}

// GetSeries handles GET /api/series/{name}
func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	record, err := h.service.Store().Get(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   domain.FromSeries(record.Series),
	})
}

// DeleteSeries handles DELETE /api/series/{name}
func (h *SeriesHandler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	reqID := middleware.GetReqID(r.Context())

	if err := h.service.Store().Remove(name); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "series removed",
		slog.String("request_id", reqID),
		slog.String("series", name),
	)

	render.NoContent(w, r)
}

// RenderSeries handles GET /api/series/{name}/render. CSV renders as a
// text body, JSON as the rendered structure.
func (h *SeriesHandler) RenderSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	req := exportRequestFromQuery(r)
	if err := validateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	switch export.Format(req.Format) {
	case export.FormatCSV:
		out, err := h.service.RenderCSV(r.Context(), name, req)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(out))

	case export.FormatJSON:
		out, err := h.service.RenderJSON(r.Context(), name, req)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		render.JSON(w, r, map[string]interface{}{
			"status": "success",
			"data":   out,
		})

	default:
		h.errorHandler.HandleError(w, r,
			serr.InvalidOption("format", fmt.Sprintf("format %q has no render form", req.Format)))
	}
}

// ExportSeries handles GET /api/series/{name}/export. With
// download=true the artifact streams back as an attachment; otherwise
// it is written to the reports directory and the outcome returned.
func (h *SeriesHandler) ExportSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	reqID := middleware.GetReqID(r.Context())
	req := exportRequestFromQuery(r)
	if err := validateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "export requested",
		slog.String("request_id", reqID),
		slog.String("series", name),
		slog.String("format", req.Format),
		slog.Bool("download", req.Download),
	)

	if req.Download {
		// The saver writes headers and body; on failure past that
		// point the response is already committed.
		if _, err := h.service.Export(r.Context(), name, req, export.NewHTTPSaver(w)); err != nil {
			if !isResponseWritten(w) {
				h.errorHandler.HandleError(w, r, err)
			}
		}
		return
	}

	outcome, err := h.service.ExportToReports(r.Context(), name, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   outcome,
	})
}

// ExportBundle handles POST /api/series/{name}/export/bundle
func (h *SeriesHandler) ExportBundle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "bundle export requested",
		slog.String("request_id", reqID),
		slog.String("series", name),
	)

	outcomes, err := h.service.ExportBundle(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   outcomes,
		"count":  len(outcomes),
	})
}

// ExportSheets handles POST /api/series/{name}/export/sheets
func (h *SeriesHandler) ExportSheets(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "sheets export requested",
		slog.String("request_id", reqID),
		slog.String("series", name),
	)

	outcome, err := h.service.ExportToSheets(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   outcome,
	})
}

// MountPlot handles POST /api/series/{name}/plot. The series view is
// bound to the mount; rendering happens on GET /charts/{mount}.
func (h *SeriesHandler) MountPlot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	reqID := middleware.GetReqID(r.Context())

	var req api.PlotMountRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, serr.InvalidOption("body", "invalid request body"))
		return
	}
	if err := validateRequest(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	record, err := h.service.Store().Get(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	session := plot.NewSession(record.Series, req.MountID)
	if req.Kind == string(plot.KindBar) {
		session.Bar()
	}
	if req.Title != "" {
		session.Title(req.Title)
	}
	if req.Width > 0 || req.Height > 0 {
		session.Size(req.Width, req.Height)
	}

	h.registry.Mount(session)

	h.logger.InfoContext(r.Context(), "plot mounted",
		slog.String("request_id", reqID),
		slog.String("series", name),
		slog.String("mount_id", req.MountID),
		slog.String("kind", string(session.Kind())),
	)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"mount_id":  req.MountID,
			"series":    name,
			"kind":      string(session.Kind()),
			"chart_url": "/charts/" + req.MountID,
		},
	})
}

// summarize reduces a store record to its listing form
func summarize(record *store.Record) domain.SeriesSummary {
	return domain.SeriesSummary{
		Name:         record.Series.Name(),
		DType:        string(record.Series.DType()),
		Length:       record.Series.Len(),
		RegisteredAt: record.RegisteredAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

// exportRequestFromQuery decodes the recognized export parameters.
// Unknown parameters are ignored; option structs validate the rest.
func exportRequestFromQuery(r *http.Request) api.ExportRequest {
	q := r.URL.Query()

	req := api.ExportRequest{
		Format:    q.Get("format"),
		Sep:       q.Get("sep"),
		Layout:    q.Get("layout"),
		FileName:  q.Get("fileName"),
		SheetName: q.Get("sheetName"),
	}
	if req.Format == "" {
		req.Format = "csv"
	}

	if v := q.Get("download"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			req.Download = b
		}
	}
	if v := q.Get("header"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			req.Header = &b
		}
	}
	if v := q.Get("index"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			req.Index = b
		}
	}

	return req
}

// isResponseWritten checks if response has already been written
func isResponseWritten(w http.ResponseWriter) bool {
	// Check if writer is a wrapped response writer with status
	if ww, ok := w.(interface{ Status() int }); ok {
		return ww.Status() != 0
	}
	return false
}
