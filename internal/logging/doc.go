// Package logging provides structured logging utilities for the workspace-mcp server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// The stdio transport owns stdout for the MCP framing, so loggers built here
// always write to stderr.
package logging
