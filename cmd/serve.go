package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/opsmode/workspace-mcp/internal/calendar"
	"github.com/opsmode/workspace-mcp/internal/gmail"
	"github.com/opsmode/workspace-mcp/internal/google"
	"github.com/opsmode/workspace-mcp/internal/instrumentation"
	"github.com/opsmode/workspace-mcp/internal/logging"
	"github.com/opsmode/workspace-mcp/internal/registry"
	"github.com/opsmode/workspace-mcp/internal/server"
	"github.com/opsmode/workspace-mcp/internal/tools/calendar_tools"
	"github.com/opsmode/workspace-mcp/internal/tools/common"
	"github.com/opsmode/workspace-mcp/internal/tools/gmail_tools"
)

// EnvHTTPPort overrides the default HTTP listen port for the http
// transport.
const EnvHTTPPort = "WORKSPACE_MCP_PORT"

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		transport      string
		httpAddr       string
		envFile        string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Gmail and
Google Calendar tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - http: Plain HTTP endpoints exposing the same tool catalog

Credentials are read from the GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and
GOOGLE_REFRESH_TOKEN environment variables. Run "workspace-mcp authorize"
once to obtain them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", envFile, err)
				}
			}
			if httpAddr == "" {
				httpAddr = defaultHTTPAddr()
			}
			return runServe(transport, debugMode, httpAddr, metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP server address (for http transport). Defaults to the WORKSPACE_MCP_PORT env var, or "+server.DefaultRESTAddr+".")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to an env file with credentials (loaded before reading the environment)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (http transport only)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

func defaultHTTPAddr() string {
	if port := os.Getenv(EnvHTTPPort); port != "" {
		return ":" + port
	}
	return server.DefaultRESTAddr
}

func runServe(transport string, debugMode bool, httpAddr string, metricsEnabled bool, metricsAddr string) error {
	logger := logging.Setup(debugMode)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	creds, err := google.CredentialsFromEnv()
	if err != nil {
		return err
	}
	httpClient := creds.HTTPClient(shutdownCtx)

	gmailClient, err := gmail.NewClient(shutdownCtx, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create Gmail client: %w", err)
	}
	calendarClient, err := calendar.NewClient(shutdownCtx, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create Calendar client: %w", err)
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil && transport != "stdio" {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	serverContext := server.NewServerContext(shutdownCtx, gmailClient, calendarClient, provider.Metrics())
	defer func() {
		_ = serverContext.Shutdown()
	}()

	reg := registry.New()
	if err := gmail_tools.Register(reg, serverContext); err != nil {
		return fmt.Errorf("failed to register Gmail tools: %w", err)
	}
	if err := calendar_tools.Register(reg, serverContext); err != nil {
		return fmt.Errorf("failed to register Calendar tools: %w", err)
	}
	reg.Use(common.Instrumented(provider.Metrics(), logger))

	switch transport {
	case "stdio":
		mcpSrv := mcpserver.NewMCPServer("workspace-mcp", version,
			mcpserver.WithToolCapabilities(true),
		)
		reg.AttachTo(mcpSrv)
		return runStdioServer(mcpSrv)
	case "http":
		return runHTTPServer(shutdownCtx, logger, reg, serverContext, httpAddr, metricsEnabled, metricsAddr, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, http)", transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, logger *slog.Logger, reg *registry.Registry, sc *server.ServerContext, httpAddr string, metricsEnabled bool, metricsAddr string, provider *instrumentation.Provider) error {
	restServer := server.NewRESTServer(httpAddr, reg, sc, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var metricsServer *server.MetricsServer
	if metricsEnabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(metricsAddr, provider)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
	}

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", logging.Err(err))
		}
	}

	return restServer.Shutdown(shutdownCtx)
}
