// Package shared provides common utilities and test helpers used across
// the serex service packages. It serves as a central location for shared
// functionality that doesn't belong to any specific architectural layer.
//
// The testutil subpackage holds the buffered slog handler the service
// tests assert log output against.
//
// This package should only contain generic helpers with no domain logic
// and no dependencies on other internal packages.
package shared
