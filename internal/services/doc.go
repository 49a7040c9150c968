// Package services implements the business logic layer of the export
// service. It sits between the HTTP handlers and the export core, keeping
// option mapping, orchestration, and notification out of the transport.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Domain-focused methods that encapsulate export rules
//	4. Typed errors from pkg/errors for handler mapping
//
// # Available Services
//
// The package provides these core services:
//
//	- ExportService: maps export requests onto the store and the
//	  pkg/export exporters, runs bundle exports concurrently, and
//	  notifies the event hub
//	- HealthService: reports component and dependency health
//
// # Common Service Pattern
//
// Services take their collaborators in the constructor and a
// *slog.Logger tagged with the service name:
//
//	svc := services.NewExportService(cfg, st, logger)
//	svc.SetNotifier(hub)
//
//	outcome, err := svc.ExportToReports(ctx, "prices", req)
//	if err != nil {
//	    // err carries a pkg/errors kind the handler maps to a status
//	}
//
// # Error Handling
//
// Services return the export error kinds (InvalidOption, NotFound,
// TypeMismatch, IOFailure) so the HTTP error handler can translate them
// without string matching. Validation runs before any data is touched.
package services
