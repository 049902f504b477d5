// Package server provides the MCP server context, the REST shim, and
// the dedicated metrics listener for the workspace-mcp application.
//
// # Key Components
//
// ServerContext carries the Google service facades behind small
// interfaces so tool handlers and tests see the same surface.
//
// RESTServer is a plain HTTP facade over the shared tool registry for
// clients that do not speak MCP:
//   - GET /health answers liveness
//   - GET /tools returns the tool catalog
//   - POST /tools/{name} invokes a tool and returns its result envelope
//
// Tool failures are reported inside the envelope with isError set;
// HTTP error statuses are reserved for transport-level problems
// (unknown tool, malformed body, dispatch failure).
//
// MetricsServer serves Prometheus metrics on its own port so
// operational data stays off the tool-serving listener.
package server
