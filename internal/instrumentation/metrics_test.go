package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/metric"
)

func TestMetrics_NoOpWhenUninitialized(t *testing.T) {
	// A zero-value Metrics must be safe to call
	m := &Metrics{}
	ctx := context.Background()

	m.RecordHTTPRequest(ctx, "GET", "/health", 200, time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceGmail, "list", StatusSuccess, time.Millisecond)
	m.RecordToolInvocation(ctx, "list_emails", StatusSuccess, time.Millisecond)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	m.RecordHTTPRequest(ctx, "GET", "/health", 200, time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceCalendar, "create", StatusError, time.Millisecond)
	m.RecordToolInvocation(ctx, "create_event", StatusError, time.Millisecond)
}

func TestNewMetrics(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	ctx := context.Background()
	m.RecordHTTPRequest(ctx, "POST", "/tools/list_emails", 200, 5*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceGmail, "list", StatusSuccess, 10*time.Millisecond)
	m.RecordToolInvocation(ctx, "list_emails", StatusSuccess, 15*time.Millisecond)
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}

	if provider.Metrics() == nil {
		t.Error("expected non-nil no-op metrics recorder")
	}

	// Shutdown of a disabled provider is a no-op
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected nil shutdown error, got %v", err)
	}
}
