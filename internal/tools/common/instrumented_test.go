package common

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/opsmode/workspace-mcp/internal/instrumentation"
)

func TestToolServiceOperation(t *testing.T) {
	tests := []struct {
		name      string
		service   string
		operation string
	}{
		{"list_emails", instrumentation.ServiceGmail, "list"},
		{"search_emails", instrumentation.ServiceGmail, "search"},
		{"send_email", instrumentation.ServiceGmail, "send"},
		{"modify_email", instrumentation.ServiceGmail, "modify"},
		{"list_events", instrumentation.ServiceCalendar, "list"},
		{"create_event", instrumentation.ServiceCalendar, "create"},
		{"update_event", instrumentation.ServiceCalendar, "update"},
		{"delete_event", instrumentation.ServiceCalendar, "delete"},
	}

	for _, tt := range tests {
		service, operation := toolServiceOperation(tt.name)
		if service != tt.service || operation != tt.operation {
			t.Errorf("toolServiceOperation(%q) = (%q, %q), want (%q, %q)",
				tt.name, service, operation, tt.service, tt.operation)
		}
	}
}

func collectMetricNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}

	names := make(map[string]bool)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestInstrumented_RecordsToolAndServiceMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	metrics, err := instrumentation.NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	mw := Instrumented(metrics, nil)
	h := mw("list_emails", func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("[]"), nil
	})

	if _, err := h(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	names := collectMetricNames(t, reader)
	if !names["mcp_tool_invocations_total"] {
		t.Error("tool invocation counter was not recorded")
	}
	if !names["google_api_operations_total"] {
		t.Error("Google API operation counter was not recorded")
	}
}

func TestInstrumented_PassesThroughErrors(t *testing.T) {
	mw := Instrumented(nil, nil)
	wantErr := errors.New("backend down")
	h := mw("create_event", func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		return nil, wantErr
	})

	_, err := h(context.Background(), nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}
