package common

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opsmode/workspace-mcp/internal/instrumentation"
	"github.com/opsmode/workspace-mcp/internal/logging"
	"github.com/opsmode/workspace-mcp/internal/registry"
)

// Instrumented returns a registry middleware that records tool
// invocation metrics and logs every call. Each tool maps onto exactly
// one Google API operation, so the service-level operation metric is
// recorded alongside the tool metric. A tool failure is anything
// returning a Go error or an error result envelope.
func Instrumented(metrics *instrumentation.Metrics, logger *slog.Logger) registry.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(name string, h registry.Handler) registry.Handler {
		service, operation := toolServiceOperation(name)
		toolLogger := logging.WithTool(logger, name)

		return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
			start := time.Now()

			result, err := h(ctx, args)
			duration := time.Since(start)

			status := instrumentation.StatusSuccess
			if err != nil || (result != nil && result.IsError) {
				status = instrumentation.StatusError
			}

			metrics.RecordToolInvocation(ctx, name, status, duration)
			metrics.RecordGoogleAPIOperation(ctx, service, operation, status, duration)
			toolLogger.Debug("tool invoked",
				logging.Service(service),
				logging.Operation(operation),
				logging.Status(status),
				logging.Duration(duration),
				logging.Err(err),
			)

			return result, err
		}
	}
}

// toolServiceOperation splits a tool name like "list_emails" or
// "create_event" into the Google service it reaches and the operation
// it performs on it.
func toolServiceOperation(name string) (service, operation string) {
	operation, noun, _ := strings.Cut(name, "_")
	if strings.HasPrefix(noun, "email") {
		return instrumentation.ServiceGmail, operation
	}
	return instrumentation.ServiceCalendar, operation
}
