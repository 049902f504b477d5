package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opsmode/workspace-mcp/internal/logging"
	"github.com/opsmode/workspace-mcp/internal/registry"
)

const (
	// DefaultRESTAddr is the default listen address for the REST shim.
	DefaultRESTAddr = ":4100"

	restReadHeaderTimeout = 10 * time.Second
	restWriteTimeout      = 60 * time.Second
	restIdleTimeout       = 120 * time.Second
)

// errorResponse is the body for transport-level failures. Tool
// execution failures never use it; those travel inside the normal
// result envelope with isError set.
type errorResponse struct {
	Error string `json:"error"`
}

// toolCatalog is the body of GET /tools.
type toolCatalog struct {
	Tools []mcp.Tool `json:"tools"`
}

// RESTServer is a plain HTTP shim over the tool registry for clients
// that do not speak MCP. It exposes the catalog, a per-tool invoke
// endpoint, and health probes.
type RESTServer struct {
	httpServer *http.Server
	addr       string
	registry   *registry.Registry
	health     *HealthChecker
	sc         *ServerContext
	logger     *slog.Logger
}

// NewRESTServer creates a REST shim bound to addr, dispatching into
// the shared tool registry.
func NewRESTServer(addr string, reg *registry.Registry, sc *ServerContext, logger *slog.Logger) *RESTServer {
	if addr == "" {
		addr = DefaultRESTAddr
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RESTServer{
		addr:     addr,
		registry: reg,
		health:   NewHealthChecker(sc),
		sc:       sc,
		logger:   logger.With(logging.Transport("http")),
	}
}

// Handler builds the HTTP handler tree. Exposed separately so tests
// can drive the server without binding a port.
func (s *RESTServer) Handler() http.Handler {
	mux := http.NewServeMux()

	s.health.RegisterHealthEndpoints(mux)
	mux.Handle("GET /tools", s.instrumented("/tools", http.HandlerFunc(s.handleListTools)))
	mux.Handle("POST /tools/{name}", s.instrumented("/tools/{name}", http.HandlerFunc(s.handleInvokeTool)))

	return mux
}

// Start starts the REST server in a blocking manner. Call it in a
// goroutine if you need non-blocking operation.
func (s *RESTServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: restReadHeaderTimeout,
		WriteTimeout:      restWriteTimeout,
		IdleTimeout:       restIdleTimeout,
	}

	s.logger.Info("starting REST server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the REST server.
func (s *RESTServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		s.logger.Info("shutting down REST server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *RESTServer) Addr() string {
	return s.addr
}

func (s *RESTServer) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toolCatalog{Tools: s.registry.Tools()})
}

func (s *RESTServer) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	args, err := decodeArgs(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	result, err := s.registry.Invoke(r.Context(), name, args)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownTool) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("tool invocation failed",
			logging.Tool(name),
			logging.Err(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	// Tool failures keep the envelope and status 200; isError tells
	// the client what happened.
	writeJSON(w, http.StatusOK, result)
}

// decodeArgs reads the request body as a JSON object. An empty body
// is treated as an empty argument map.
func decodeArgs(body io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrumented wraps a handler with request logging and metrics. The
// path label is the route pattern, not the raw URL, to keep metric
// cardinality bounded.
func (s *RESTServer) instrumented(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		if s.sc != nil {
			s.sc.Metrics().RecordHTTPRequest(r.Context(), r.Method, path, rec.status, duration)
		}
		s.logger.Debug("handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			logging.Duration(duration),
		)
	})
}
