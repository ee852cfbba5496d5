package httplistener

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/atlanticdynamic/appidrelay/internal/config"
	"github.com/atlanticdynamic/appidrelay/internal/server/runnables/httplistener/middleware/accesslog"
	"github.com/atlanticdynamic/appidrelay/internal/server/runnables/httplistener/middleware/bearerauth"
	"github.com/robbyt/go-supervisor/runnables/httpserver"
)

// Routes assembles the listener's route table: the MCP endpoint with access
// logging (and bearer auth when an inbound token is configured), and the
// unauthenticated health endpoint.
func Routes(cfg config.ServerConfig, mcpHandler http.Handler, logger *slog.Logger) (httpserver.Routes, error) {
	// Access log first so rejected requests are logged with their status.
	mcpMiddlewares := []httpserver.HandlerFunc{accesslog.New(logger).Middleware()}
	if cfg.InboundAuthToken != "" {
		mcpMiddlewares = append(mcpMiddlewares, bearerauth.New(cfg.InboundAuthToken).Middleware())
	}

	mcpRoute, err := httpserver.NewRouteFromHandlerFunc(
		"mcp",
		cfg.MCPPath,
		mcpHandler.ServeHTTP,
		mcpMiddlewares...,
	)
	if err != nil {
		return nil, fmt.Errorf("mcp route: %w", err)
	}

	healthRoute, err := httpserver.NewRouteFromHandlerFunc(
		"health",
		cfg.HealthPath,
		handleHealth,
	)
	if err != nil {
		return nil, fmt.Errorf("health route: %w", err)
	}

	return httpserver.Routes{*mcpRoute, *healthRoute}, nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
