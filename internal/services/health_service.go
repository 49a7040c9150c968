package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"serex/internal/config"
	"serex/internal/store"
)

// ClientCounter reports the number of connected WebSocket clients
type ClientCounter interface {
	ClientCount() int
}

// SchedulerStatus reports whether the export scheduler is running
type SchedulerStatus interface {
	Running() bool
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	paths     config.PathsConfig
	store     *store.Store
	hub       ClientCounter
	scheduler SchedulerStatus
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(version, buildTime string, paths config.PathsConfig, st *store.Store, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		paths:     paths,
		store:     st,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// SetHub wires the WebSocket hub for client counting. Safe to leave unset.
func (h *HealthService) SetHub(hub ClientCounter) {
	h.hub = hub
}

// SetScheduler wires the export scheduler. Safe to leave unset.
func (h *HealthService) SetScheduler(sched SchedulerStatus) {
	h.scheduler = sched
}

// Check returns the current health status of the service
func (h *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(h.startTime).Seconds(),
		},
		Services: map[string]interface{}{},
	}

	if h.buildTime != "" {
		status.Runtime["build_time"] = h.buildTime
	}

	// Store registry
	status.Services["store"] = map[string]interface{}{
		"status": "healthy",
		"series": h.store.Len(),
	}

	// Reports directory must be reachable for file exports
	reportsHealth := map[string]interface{}{
		"status": "healthy",
		"path":   h.paths.ReportsDir,
	}
	if err := checkWritableDir(h.paths.ReportsDir); err != nil {
		reportsHealth["status"] = "unhealthy"
		reportsHealth["message"] = err.Error()
		status.Status = "degraded"

		h.logger.WarnContext(ctx, "reports directory unavailable",
			slog.String("path", h.paths.ReportsDir),
			slog.String("error", err.Error()),
		)
	}
	status.Services["reports"] = reportsHealth

	// WebSocket hub
	if h.hub != nil {
		status.Services["websocket"] = map[string]interface{}{
			"status":  "healthy",
			"clients": h.hub.ClientCount(),
		}
	}

	// Scheduler
	if h.scheduler != nil {
		schedStatus := "stopped"
		if h.scheduler.Running() {
			schedStatus = "running"
		}
		status.Services["scheduler"] = map[string]interface{}{
			"status": schedStatus,
		}
	}

	return status
}

// Uptime returns how long the service has been running
func (h *HealthService) Uptime() time.Duration {
	return time.Since(h.startTime)
}

// checkWritableDir verifies the directory exists and is writable
func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat reports dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return fmt.Errorf("reports dir not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}
