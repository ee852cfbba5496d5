// Package server assembles the relay's runnables and runs them under a
// supervisor until shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/appidrelay/internal/config"
	"github.com/atlanticdynamic/appidrelay/internal/relay"
	"github.com/atlanticdynamic/appidrelay/internal/server/mcpapp"
	"github.com/atlanticdynamic/appidrelay/internal/server/runnables/httplistener"
	"github.com/atlanticdynamic/appidrelay/internal/server/runnables/mcpstdio"
	"github.com/robbyt/go-supervisor/supervisor"
)

// Run starts the relay using the provided context, logger, and validated
// configuration, serving MCP over stdio or streamable HTTP. It blocks until
// shutdown and returns an error if the server fails to start.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	stdio bool,
	version string,
) error {
	logHandler := logger.Handler()

	rly := relay.New(
		cfg.Upstream.BaseURL,
		cfg.Upstream.AuthToken,
		relay.WithTimeout(cfg.Upstream.Timeout.AsDuration()),
		relay.WithHeaders(cfg.Upstream.Headers),
		relay.WithLogger(logger.WithGroup("relay")),
	)

	mcpServer, err := mcpapp.NewServer(rly, version, logger.WithGroup("mcp"))
	if err != nil {
		return fmt.Errorf("failed to compile MCP server: %w", err)
	}

	var runnables []supervisor.Runnable

	if stdio {
		stdioRunner, err := mcpstdio.NewRunner(
			mcpServer,
			mcpstdio.WithContext(ctx),
			mcpstdio.WithLogHandler(logHandler),
		)
		if err != nil {
			return fmt.Errorf("failed to create stdio runner: %w", err)
		}
		runnables = append(runnables, stdioRunner)
	} else {
		app, err := mcpapp.New(&mcpapp.Config{ID: "mcp", CompiledServer: mcpServer})
		if err != nil {
			return fmt.Errorf("failed to create MCP app: %w", err)
		}

		routes, err := httplistener.Routes(cfg.Server, app, logger)
		if err != nil {
			return fmt.Errorf("failed to build routes: %w", err)
		}

		httpRunner, err := httplistener.NewRunner(
			cfg.Server.Listen,
			routes,
			httplistener.WithLogger(logger.WithGroup("httplistener")),
		)
		if err != nil {
			return fmt.Errorf("failed to create HTTP listener runner: %w", err)
		}
		runnables = append(runnables, httpRunner)
	}

	super, err := supervisor.New(
		supervisor.WithContext(ctx),
		supervisor.WithLogHandler(logHandler),
		supervisor.WithRunnables(runnables...),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}
