// Package schedule runs periodic bundle exports of every registered
// series on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"serex/internal/infrastructure"
)

// BundleExporter exports every registered series and reports how many
// succeeded. Satisfied by services.ExportService.
type BundleExporter interface {
	ExportAllBundles(ctx context.Context) (int, error)
}

// Scheduler triggers bundle exports at scheduled intervals using cron
// syntax (e.g. "0 3 * * *" for daily at 3 AM, or "@hourly").
type Scheduler struct {
	exporter BundleExporter
	spec     string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	metrics  *infrastructure.BusinessMetrics
	running  bool
}

// New creates a scheduler for the given cron spec. The spec is
// validated here so a bad expression surfaces at startup instead of
// first tick.
func New(exporter BundleExporter, spec string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	return &Scheduler{
		exporter: exporter,
		spec:     spec,
		cron:     cron.New(),
		logger:   logger.With(slog.String("component", "scheduler")),
	}, nil
}

// SetMetrics wires business metrics for scheduled runs. Safe to leave unset.
func (s *Scheduler) SetMetrics(m *infrastructure.BusinessMetrics) {
	s.metrics = m
}

// Start begins the scheduled exports. The scheduler stops itself when
// ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runExport(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule exports: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.InfoContext(ctx, "export scheduler started",
		slog.String("schedule", s.spec),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runExport executes one bundle export cycle across the store.
func (s *Scheduler) runExport(ctx context.Context) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()

	s.logger.InfoContext(ctx, "starting scheduled export run")

	exported, err := s.exporter.ExportAllBundles(ctx)
	infrastructure.RecordScheduledRun(ctx, s.metrics, exported, err)

	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled export run failed",
			slog.Int("exported", exported),
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return
	}

	if exported > 0 {
		s.logger.InfoContext(ctx, "scheduled export run completed",
			slog.Int("exported", exported),
			slog.Duration("duration", time.Since(start)),
		)
	} else {
		s.logger.DebugContext(ctx, "scheduled export run completed, no series registered")
	}
}

// Stop stops the scheduler and waits for any running export to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("export scheduler stopped")
	}
}

// Running reports whether the scheduler is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled export time, or nil when the
// scheduler has no pending entries.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
