package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"serex/internal/config"
	apierrors "serex/internal/errors"
	"serex/internal/infrastructure"
	customMiddleware "serex/internal/middleware"
	"serex/internal/schedule"
	"serex/internal/services"
	"serex/internal/store"
	handlers "serex/internal/transport/http"
	ws "serex/internal/websocket"
	"serex/pkg/contracts"
	"serex/pkg/export"
	"serex/pkg/plot"
)

const AppName = "serex"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Store         *store.Store
	ExportService *services.ExportService
	HealthService *services.HealthService
	Scheduler     *schedule.Scheduler
	WebSocketHub  *ws.Hub
	PlotRegistry  *plot.Registry
	Logger        *slog.Logger
	Metrics       *infrastructure.BusinessMetrics
	OTelProviders *infrastructure.OTelProviders
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.ServiceVersion = contracts.Version
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the store, hub, and export services
func (a *Application) initializeServices() error {
	a.Store = store.New()
	a.PlotRegistry = plot.NewRegistry()
	a.WebSocketHub = ws.NewHub(a.Logger)

	if a.OTelProviders.Meter != nil {
		metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
		if err != nil {
			a.Logger.Warn("failed to create business metrics",
				slog.String("error", err.Error()))
		} else {
			a.Metrics = metrics
		}
	}
	a.WebSocketHub.SetMetrics(a.Metrics)

	a.ExportService = services.NewExportService(a.Store, a.Config, a.Logger)
	a.ExportService.SetNotifier(a.WebSocketHub)
	a.ExportService.SetMetrics(a.Metrics)

	if a.Config.Sheets.Enabled {
		credentials, err := os.ReadFile(a.Config.GetCredentialsFile())
		if err != nil {
			return fmt.Errorf("read sheets credentials: %w", err)
		}
		exporter, err := export.NewSheetsExporterFromCredentials(context.Background(), credentials)
		if err != nil {
			return fmt.Errorf("initialize sheets exporter: %w", err)
		}
		a.ExportService.SetSheetsExporter(exporter)
		a.Logger.Info("sheets export enabled",
			slog.String("spreadsheet_id", a.Config.Sheets.SpreadsheetID))
	}

	// A bad cron spec is a configuration error and fails startup
	if a.Config.Schedule.Enabled {
		scheduler, err := schedule.New(a.ExportService, a.Config.Schedule.Spec, a.Logger)
		if err != nil {
			return err
		}
		scheduler.SetMetrics(a.Metrics)
		a.Scheduler = scheduler
	}

	a.HealthService = services.NewHealthService(
		contracts.Version, contracts.BuildTime, a.Config.Paths, a.Store, a.Logger)
	a.HealthService.SetHub(a.WebSocketHub)
	if a.Scheduler != nil {
		a.HealthService.SetScheduler(a.Scheduler)
	}

	return nil
}

// setupRouter configures the HTTP routes and middleware
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware that won't interfere with the WebSocket upgrade
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	wsHandler := handlers.NewWSHandler(
		a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// Everything else gets the full middleware chain
	r.Group(func(r chi.Router) {
		if a.OTelProviders.Tracer != nil && a.OTelProviders.Meter != nil {
			otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
			if err != nil {
				a.Logger.Error("failed to create telemetry middleware",
					slog.String("error", err.Error()))
			} else {
				r.Use(otelMiddleware.Handler)
			}
		}
		r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)
	})

	// Prometheus endpoint stays outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)
		})

		// Exports get a longer timeout than the rest of the API
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ExportTimeout, a.Logger))

			seriesHandler := handlers.NewSeriesHandler(
				a.ExportService, a.PlotRegistry, a.Logger, errorHandler)
			r.Mount("/series", seriesHandler.Routes())
		})
	})

	chartHandler := handlers.NewChartHandler(a.PlotRegistry, a.Logger, errorHandler)
	r.Mount("/charts", chartHandler.Routes())
}

// corsConfig builds the CORS policy from the security configuration
func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// createServer builds the HTTP server from configuration
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the application
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.WebSocketHub.Start()
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "startup health check warnings",
			slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down telemetry",
				slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing log file",
			slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "server stopped")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies critical paths are usable
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	status := a.HealthService.Check(ctx)
	if status.Status != "healthy" {
		return fmt.Errorf("service reports %s", status.Status)
	}
	return nil
}
