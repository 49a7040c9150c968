package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"serex/internal/config"
	"serex/internal/infrastructure"
	"serex/internal/store"
	api "serex/pkg/contracts/api/v1"
	"serex/pkg/contracts/events"
	serr "serex/pkg/errors"
	"serex/pkg/export"
	"serex/pkg/series"
)

// Notifier broadcasts export lifecycle events to subscribers. The
// WebSocket hub implements it; a nil notifier disables notification.
type Notifier interface {
	Broadcast(msg events.WebSocketMessage)
}

// ExportService orchestrates the store and the exporters. It maps
// transport requests to option structs, runs the export through the
// injected Saver, and notifies the event hub about the outcome.
type ExportService struct {
	store   *store.Store
	config  *config.Config
	logger  *slog.Logger
	hub     Notifier
	metrics *infrastructure.BusinessMetrics
	sheets  *export.SheetsExporter
}

// NewExportService creates an export service over the given store
func NewExportService(st *store.Store, cfg *config.Config, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ExportService{
		store:  st,
		config: cfg,
		logger: logger.With(slog.String("component", "export_service")),
	}
}

// SetNotifier wires the event hub. Safe to leave unset.
func (s *ExportService) SetNotifier(n Notifier) {
	s.hub = n
}

// SetMetrics wires the business metrics. Safe to leave unset.
func (s *ExportService) SetMetrics(m *infrastructure.BusinessMetrics) {
	s.metrics = m
}

// SetSheetsExporter wires the Google Sheets exporter. Left unset when
// no credentials are configured.
func (s *ExportService) SetSheetsExporter(e *export.SheetsExporter) {
	s.sheets = e
}

// Store exposes the underlying registry for transports
func (s *ExportService) Store() *store.Store {
	return s.store
}

// Register adds or replaces a series snapshot in the store
func (s *ExportService) Register(ctx context.Context, sr *series.Series) *store.Record {
	record := s.store.Register(sr)

	s.logger.InfoContext(ctx, "series registered",
		slog.String("series", sr.Name()),
		slog.String("dtype", string(sr.DType())),
		slog.Int("len", sr.Len()),
	)

	return record
}

// RenderCSV renders a registered series as a CSV string
func (s *ExportService) RenderCSV(ctx context.Context, name string, req api.ExportRequest) (string, error) {
	record, err := s.store.Get(name)
	if err != nil {
		return "", err
	}

	opts, err := s.csvOptions(req)
	if err != nil {
		return "", err
	}

	return export.RenderCSV(record.Series, opts)
}

// RenderJSON renders a registered series as a JSON value
func (s *ExportService) RenderJSON(ctx context.Context, name string, req api.ExportRequest) (interface{}, error) {
	record, err := s.store.Get(name)
	if err != nil {
		return nil, err
	}

	opts, err := s.jsonOptions(req)
	if err != nil {
		return nil, err
	}

	return export.RenderJSON(record.Series, opts)
}

// Export exports a registered series in the requested format through
// the given Saver. Transports pass an HTTPSaver for download runs; use
// ExportToReports for durable storage.
func (s *ExportService) Export(ctx context.Context, name string, req api.ExportRequest, saver export.Saver) (*export.Outcome, error) {
	record, err := s.store.Get(name)
	if err != nil {
		return nil, err
	}

	return s.exportOne(ctx, record.Series, req, saver)
}

// ExportToReports exports a registered series to the reports directory
func (s *ExportService) ExportToReports(ctx context.Context, name string, req api.ExportRequest) (*export.Outcome, error) {
	saver := export.NewFileSaver(s.config.GetReportsDir())
	return s.Export(ctx, name, req, saver)
}

// ExportBundle exports a registered series to the reports directory in
// all three file formats concurrently. The first failure cancels the
// remaining exports and no partial outcome list is returned.
func (s *ExportService) ExportBundle(ctx context.Context, name string) ([]*export.Outcome, error) {
	record, err := s.store.Get(name)
	if err != nil {
		return nil, err
	}

	sr := record.Series
	saver := export.NewFileSaver(s.config.GetReportsDir())
	outcomes := make([]*export.Outcome, 3)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		opts := export.DefaultCSVOptions()
		opts.FileName = name + ".csv"
		outcome, err := export.ExportCSV(gctx, sr, opts, saver)
		if err != nil {
			s.notify(gctx, name, string(export.FormatCSV), nil, err)
			return err
		}
		outcomes[0] = outcome
		s.notify(gctx, name, string(export.FormatCSV), outcome, nil)
		return nil
	})

	g.Go(func() error {
		opts := export.DefaultJSONOptions()
		opts.FileName = name + ".json"
		outcome, err := export.ExportJSON(gctx, sr, opts, saver)
		if err != nil {
			s.notify(gctx, name, string(export.FormatJSON), nil, err)
			return err
		}
		outcomes[1] = outcome
		s.notify(gctx, name, string(export.FormatJSON), outcome, nil)
		return nil
	})

	g.Go(func() error {
		opts := export.DefaultExcelOptions()
		opts.FileName = name + ".xlsx"
		outcome, err := export.ExportExcel(gctx, sr, opts, saver)
		if err != nil {
			s.notify(gctx, name, string(export.FormatExcel), nil, err)
			return err
		}
		outcomes[2] = outcome
		s.notify(gctx, name, string(export.FormatExcel), outcome, nil)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "bundle export failed",
			slog.String("series", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "bundle export complete",
		slog.String("series", name),
		slog.Int("artifacts", len(outcomes)),
	)

	return outcomes, nil
}

// ExportAllBundles bundle-exports every registered series. Failures are
// logged and counted; the remaining series still export.
func (s *ExportService) ExportAllBundles(ctx context.Context) (int, error) {
	names := s.store.Names()
	exported := 0
	failed := 0

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return exported, err
		}

		if _, err := s.ExportBundle(ctx, name); err != nil {
			failed++
			continue
		}
		exported++
	}

	if failed > 0 {
		return exported, fmt.Errorf("bundle export failed for %d of %d series", failed, len(names))
	}

	return exported, nil
}

// ExportToSheets writes a registered series to the configured Google
// spreadsheet
func (s *ExportService) ExportToSheets(ctx context.Context, name string) (*export.Outcome, error) {
	if s.sheets == nil {
		return nil, serr.InvalidOption("sheets", "sheets export is not configured")
	}

	record, err := s.store.Get(name)
	if err != nil {
		return nil, err
	}

	opts := export.DefaultSheetsOptions(s.config.Sheets.SpreadsheetID)
	if s.config.Sheets.Range != "" {
		opts.Range = s.config.Sheets.Range
	}

	start := time.Now()
	outcome, err := s.sheets.Export(ctx, record.Series, opts)
	infrastructure.RecordExportMetrics(ctx, s.metrics, name, string(export.FormatSheets), time.Since(start), 0, err)

	if err != nil {
		s.broadcast(events.NewExportFailed(name, string(export.FormatSheets), err))
		s.logger.ErrorContext(ctx, "sheets export failed",
			slog.String("series", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.broadcast(events.NewExportComplete(name, string(export.FormatSheets), outcome.Destination, outcome.Bytes))
	s.logger.InfoContext(ctx, "sheets export complete",
		slog.String("series", name),
		slog.String("spreadsheet_id", opts.SpreadsheetID),
		slog.Int64("cells", outcome.Cells),
	)

	return outcome, nil
}

// exportOne runs a single-format export and reports the outcome
func (s *ExportService) exportOne(ctx context.Context, sr *series.Series, req api.ExportRequest, saver export.Saver) (*export.Outcome, error) {
	var (
		outcome *export.Outcome
		err     error
	)

	start := time.Now()

	switch export.Format(req.Format) {
	case export.FormatCSV:
		var opts export.CSVOptions
		if opts, err = s.csvOptions(req); err == nil {
			outcome, err = export.ExportCSV(ctx, sr, opts, saver)
		}
	case export.FormatJSON:
		var opts export.JSONOptions
		if opts, err = s.jsonOptions(req); err == nil {
			outcome, err = export.ExportJSON(ctx, sr, opts, saver)
		}
	case export.FormatExcel:
		var opts export.ExcelOptions
		if opts, err = s.excelOptions(req); err == nil {
			outcome, err = export.ExportExcel(ctx, sr, opts, saver)
		}
	default:
		err = serr.InvalidOption("format", fmt.Sprintf("unsupported format %q", req.Format))
	}

	infrastructure.RecordExportMetrics(ctx, s.metrics, sr.Name(), req.Format, time.Since(start), artifactBytes(outcome), err)
	s.notify(ctx, sr.Name(), req.Format, outcome, err)

	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// notify publishes an export lifecycle event and logs it
func (s *ExportService) notify(ctx context.Context, name, format string, outcome *export.Outcome, err error) {
	if err != nil {
		s.broadcast(events.NewExportFailed(name, format, err))
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("series", name),
			slog.String("format", format),
			slog.String("error", err.Error()),
		)
		return
	}

	s.broadcast(events.NewExportComplete(name, format, outcome.Destination, outcome.Bytes))
	s.logger.InfoContext(ctx, "export complete",
		slog.String("series", name),
		slog.String("format", format),
		slog.String("destination", outcome.Destination),
		slog.Int("bytes", outcome.Bytes),
	)
}

func (s *ExportService) broadcast(msg events.WebSocketMessage) {
	if s.hub != nil {
		s.hub.Broadcast(msg)
	}
}

// csvOptions maps a transport request onto CSV options
func (s *ExportService) csvOptions(req api.ExportRequest) (export.CSVOptions, error) {
	opts := export.DefaultCSVOptions()

	if req.Header != nil {
		opts.Header = *req.Header
	}
	opts.Index = req.Index
	if req.FileName != "" {
		opts.FileName = req.FileName
	}
	if req.Sep != "" {
		if utf8.RuneCountInString(req.Sep) != 1 {
			return opts, serr.InvalidOption("sep", "must be a single character")
		}
		r, _ := utf8.DecodeRuneInString(req.Sep)
		opts.Sep = r
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// jsonOptions maps a transport request onto JSON options
func (s *ExportService) jsonOptions(req api.ExportRequest) (export.JSONOptions, error) {
	opts := export.DefaultJSONOptions()

	if req.Layout != "" {
		opts.Format = req.Layout
	}
	if req.FileName != "" {
		opts.FileName = req.FileName
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// excelOptions maps a transport request onto Excel options
func (s *ExportService) excelOptions(req api.ExportRequest) (export.ExcelOptions, error) {
	opts := export.DefaultExcelOptions()

	if req.SheetName != "" {
		opts.SheetName = req.SheetName
	}
	if req.FileName != "" {
		opts.FileName = req.FileName
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// artifactBytes reads the byte count off an outcome, tolerating nil
func artifactBytes(outcome *export.Outcome) int64 {
	if outcome == nil {
		return 0
	}
	return int64(outcome.Bytes)
}
