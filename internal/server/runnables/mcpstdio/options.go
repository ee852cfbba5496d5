package mcpstdio

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Option configures a Runner. Nil values leave the default in place.
type Option func(*Runner)

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLogHandler builds the Runner logger from a bare slog handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		if handler != nil {
			r.logger = slog.New(handler)
		}
	}
}

// WithContext sets the parent context watched for shutdown.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		if ctx != nil {
			r.parentCtx = ctx
		}
	}
}

// WithTransport overrides the stdio transport, mainly for tests.
func WithTransport(t mcpsdk.Transport) Option {
	return func(r *Runner) {
		if t != nil {
			r.transport = t
		}
	}
}
