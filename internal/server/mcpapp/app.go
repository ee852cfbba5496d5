package mcpapp

import (
	"fmt"
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Config contains everything needed to instantiate the HTTP-served MCP app.
// The server must already be compiled via NewServer.
type Config struct {
	// ID identifies this app instance in logs and route registration.
	ID string

	// CompiledServer is the ready MCP server with all tools registered.
	CompiledServer *mcpsdk.Server
}

// App serves the compiled MCP server over streamable HTTP.
type App struct {
	id      string
	handler http.Handler
}

// New creates the HTTP-served MCP app from a Config.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.CompiledServer == nil {
		return nil, fmt.Errorf("app %s: %w", cfg.ID, ErrServerNotCompiled)
	}

	handler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return cfg.CompiledServer
	}, nil)

	return &App{
		id:      cfg.ID,
		handler: handler,
	}, nil
}

// String identifies the app instance in logs and route registration.
func (a *App) String() string {
	return a.id
}

// ServeHTTP delegates to the MCP SDK's streamable HTTP handler, which owns
// all protocol concerns.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
