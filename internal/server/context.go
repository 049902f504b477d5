package server

import (
	"context"
	"sync"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/opsmode/workspace-mcp/internal/calendar"
	"github.com/opsmode/workspace-mcp/internal/gmail"
	"github.com/opsmode/workspace-mcp/internal/instrumentation"
)

// GmailService is the surface of the Gmail client the tool handlers
// depend on. Tests substitute a fake implementation.
type GmailService interface {
	ListEmails(ctx context.Context, query string, maxResults int64) ([]gmail.EmailSummary, error)
	SearchEmails(ctx context.Context, query string, maxResults int64) ([]gmail.EmailSummary, error)
	SendEmail(ctx context.Context, msg gmail.OutgoingMessage) (string, error)
	ModifyEmail(ctx context.Context, messageID string, addLabels, removeLabels []string) (*gmail.ModifyResult, error)
}

// CalendarService is the surface of the Calendar client the tool
// handlers depend on.
type CalendarService interface {
	ListEvents(ctx context.Context, maxResults int64, timeMin, timeMax string) ([]calendar.EventSummary, error)
	CreateEvent(ctx context.Context, input calendar.EventInput) (*calendarapi.Event, error)
	UpdateEvent(ctx context.Context, eventID string, patch calendar.EventPatch) (*calendarapi.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// ServerContext holds the shared dependencies of the MCP server.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	gmail    GmailService
	calendar CalendarService
	metrics  *instrumentation.Metrics
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context carrying the Google
// service facades and the metrics recorder.
func NewServerContext(ctx context.Context, gmailSvc GmailService, calendarSvc CalendarService, metrics *instrumentation.Metrics) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		gmail:    gmailSvc,
		calendar: calendarSvc,
		metrics:  metrics,
	}
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// GmailService returns the Gmail service facade.
func (sc *ServerContext) GmailService() GmailService {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.gmail
}

// CalendarService returns the Calendar service facade.
func (sc *ServerContext) CalendarService() CalendarService {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.calendar
}

// Metrics returns the metrics recorder. It may be a no-op recorder
// but is never nil-unsafe.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
