// Package http implements the HTTP handlers for the serex export
// service. It provides a thin layer between HTTP transport and the
// export services, keeping handlers focused solely on HTTP concerns.
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Store
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "validation_error",
//	    "title": "Invalid Option",
//	    "status": 400,
//	    "detail": "sep must be a single character",
//	    "instance": "/api/series/prices/render"
//	}
//
// The WebSocket handler upgrades connections with Gorilla WebSocket and
// registers clients with the event hub; fan-out and lifecycle live in
// the websocket package.
package http
