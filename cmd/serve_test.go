package cmd

import (
	"strings"
	"testing"

	"github.com/opsmode/workspace-mcp/internal/registry"
	"github.com/opsmode/workspace-mcp/internal/server"
	"github.com/opsmode/workspace-mcp/internal/tools/calendar_tools"
	"github.com/opsmode/workspace-mcp/internal/tools/gmail_tools"
)

func TestDefaultHTTPAddr(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		expected string
	}{
		{
			name:     "unset falls back to default",
			port:     "",
			expected: server.DefaultRESTAddr,
		},
		{
			name:     "port from environment",
			port:     "8123",
			expected: ":8123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvHTTPPort, tt.port)

			if got := defaultHTTPAddr(); got != tt.expected {
				t.Errorf("defaultHTTPAddr() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"list_emails", "Gmail Tools"},
		{"send_email", "Gmail Tools"},
		{"create_event", "Calendar Tools"},
		{"delete_event", "Calendar Tools"},
		{"something_else", "Other"},
	}

	for _, tt := range tests {
		if got := getCategoryFromToolName(tt.name); got != tt.expected {
			t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestGenerateDocsCoversAllTools(t *testing.T) {
	sc := server.NewServerContext(t.Context(), nil, nil, nil)
	reg := registry.New()
	if err := gmail_tools.Register(reg, sc); err != nil {
		t.Fatalf("registering Gmail tools: %v", err)
	}
	if err := calendar_tools.Register(reg, sc); err != nil {
		t.Fatalf("registering Calendar tools: %v", err)
	}

	markdown := generateToolsMarkdown(reg.Tools())

	for _, name := range []string{
		"list_emails", "search_emails", "send_email", "modify_email",
		"list_events", "create_event", "update_event", "delete_event",
	} {
		if !strings.Contains(markdown, "### "+name) {
			t.Errorf("documentation is missing tool %s", name)
		}
	}

	if !strings.Contains(markdown, "`query` (required)") {
		t.Error("search_emails query should be documented as required")
	}
}
