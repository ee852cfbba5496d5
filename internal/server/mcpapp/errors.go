package mcpapp

import "errors"

var (
	// ErrNilRelay is returned when compiling a server without a relay.
	ErrNilRelay = errors.New("relay is nil")

	// ErrNilConfig is returned when creating an app from a nil config.
	ErrNilConfig = errors.New("mcp app config is nil")

	// ErrServerNotCompiled is returned when the config carries no compiled
	// MCP server, which means NewServer was never called.
	ErrServerNotCompiled = errors.New("MCP server is nil")
)
