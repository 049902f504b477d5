package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ErrUnknownTool is returned when a tool name does not match any
// registered tool. Transports map it to their own "method not found"
// shape, distinct from a tool execution failure.
var ErrUnknownTool = errors.New("unknown tool")

// Handler executes a tool against already-decoded arguments. Tool
// failures are reported inside the result envelope; a non-nil error
// means the call itself could not be carried out.
type Handler func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)

// Middleware wraps a handler, typically for instrumentation.
type Middleware func(name string, h Handler) Handler

type entry struct {
	tool    mcp.Tool
	handler Handler
}

// Registry is the single tool catalog shared by every transport. Both
// the stdio MCP server and the HTTP shim dispatch through it, so the
// tool set and the per-tool behavior cannot drift between transports.
type Registry struct {
	order      []string
	entries    map[string]entry
	middleware []Middleware
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Add registers a tool with its handler. Registration order is
// preserved and defines the catalog order.
func (r *Registry) Add(tool mcp.Tool, h Handler) {
	if _, exists := r.entries[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.entries[tool.Name] = entry{tool: tool, handler: h}
}

// Tools returns the tool descriptors in registration order.
func (r *Registry) Tools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.entries[name].tool)
	}
	return tools
}

// Use appends middleware to the dispatch chain. Every Invoke call,
// from any transport, runs through it.
func (r *Registry) Use(middleware ...Middleware) {
	r.middleware = append(r.middleware, middleware...)
}

// Invoke dispatches a call to the named tool through the middleware
// chain. Unknown names return ErrUnknownTool; argument validation
// failures come back as an error result envelope, not a Go error,
// matching how tool failures are reported.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	h := func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		if msg := validateArgs(e.tool, args); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return e.handler(ctx, args)
	}
	for i := len(r.middleware) - 1; i >= 0; i-- {
		h = r.middleware[i](name, h)
	}

	return h(ctx, args)
}

// AttachTo registers every tool on an MCP server. Calls are routed
// through Invoke, so the MCP transport and direct callers share one
// dispatch path, middleware included.
func (r *Registry) AttachTo(s *mcpserver.MCPServer) {
	for _, name := range r.order {
		e := r.entries[name]

		s.AddTool(e.tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return r.Invoke(ctx, e.tool.Name, request.GetArguments())
		})
	}
}

// validateArgs checks required fields and primitive types against the
// tool's input schema. It returns an empty string when the arguments
// are acceptable. Fields the schema does not declare pass through
// untouched, and a JSON null is only rejected for required fields.
func validateArgs(tool mcp.Tool, args map[string]any) string {
	for _, name := range tool.InputSchema.Required {
		v, ok := args[name]
		if !ok || v == nil {
			return fmt.Sprintf("%s is required", name)
		}
	}

	for name, raw := range tool.InputSchema.Properties {
		v, ok := args[name]
		if !ok || v == nil {
			continue
		}

		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		declared, _ := prop["type"].(string)

		switch declared {
		case "string":
			if _, ok := v.(string); !ok {
				return fmt.Sprintf("%s must be a string", name)
			}
		case "number":
			if _, ok := v.(float64); !ok {
				return fmt.Sprintf("%s must be a number", name)
			}
		case "boolean":
			if _, ok := v.(bool); !ok {
				return fmt.Sprintf("%s must be a boolean", name)
			}
		}
	}

	return ""
}
