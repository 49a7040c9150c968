// Package config provides centralized configuration management for the
// serex export service. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the service.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration files (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SEREX_* for namespacing:
//
//	SEREX_SERVER_PORT=8080
//	SEREX_LOGGING_LEVEL=info
//	SEREX_SCHEDULE_ENABLED=true
//	SEREX_SCHEDULE_SPEC="0 * * * *"
//	SEREX_SHEETS_SPREADSHEET_ID=1BxiMVs0...
//
// # Path Management
//
// The package provides centralized path management through the Paths
// type, which handles all file system paths relative to the executable
// location:
//
//	paths, err := config.GetPaths()
//	reportPath := paths.GetReportPath("prices.csv")
//
// # Validation
//
// All configuration is validated at load time; the cron schedule spec
// is additionally validated when the scheduler is constructed, so an
// invalid expression fails startup instead of the first tick.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
