// Package httplistener runs the HTTP surface of the relay: the MCP endpoint
// and the health endpoint on one listener, wrapped as a supervisor runnable.
package httplistener

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"
)

// Interface guards. The listener is deliberately not Reloadable: config is
// immutable after startup.
var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// Default timeout values for the listener.
const (
	DefaultReadTimeout  = 1 * time.Minute
	DefaultWriteTimeout = 1 * time.Minute
	DefaultIdleTimeout  = 1 * time.Minute
	DefaultDrainTimeout = 30 * time.Second
)

// TimeoutOptions contains timeout configuration for the HTTP server.
type TimeoutOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	DrainTimeout time.Duration
}

// serverImplementation abstracts the underlying HTTP server sub-runnable.
type serverImplementation interface {
	Run(ctx context.Context) error
	Stop()
	GetState() string
	IsRunning() bool
	GetStateChan(ctx context.Context) <-chan string
}

// Runner wraps go-supervisor's httpserver.Runner with this service's fixed
// route table.
type Runner struct {
	address string
	server  serverImplementation

	logger   *slog.Logger
	routes   httpserver.Routes
	timeouts TimeoutOptions
	mutex    sync.Mutex
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimeouts overrides the default server timeouts. Zero fields keep their
// defaults.
func WithTimeouts(timeouts TimeoutOptions) Option {
	return func(r *Runner) {
		if timeouts.ReadTimeout > 0 {
			r.timeouts.ReadTimeout = timeouts.ReadTimeout
		}
		if timeouts.WriteTimeout > 0 {
			r.timeouts.WriteTimeout = timeouts.WriteTimeout
		}
		if timeouts.IdleTimeout > 0 {
			r.timeouts.IdleTimeout = timeouts.IdleTimeout
		}
		if timeouts.DrainTimeout > 0 {
			r.timeouts.DrainTimeout = timeouts.DrainTimeout
		}
	}
}

// NewRunner creates the listener runnable for the given address and routes.
func NewRunner(address string, routes httpserver.Routes, opts ...Option) (*Runner, error) {
	if address == "" {
		return nil, fmt.Errorf("listen address is empty")
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no routes provided")
	}

	r := &Runner{
		address: address,
		routes:  routes,
		logger:  slog.Default().WithGroup("httplistener"),
		timeouts: TimeoutOptions{
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
			DrainTimeout: DefaultDrainTimeout,
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.initializeRunner(); err != nil {
		return nil, fmt.Errorf("failed to initialize HTTP listener: %w", err)
	}

	return r, nil
}

// initializeRunner creates the underlying httpserver.Runner.
func (r *Runner) initializeRunner() error {
	configCallback := func() (*httpserver.Config, error) {
		r.mutex.Lock()
		address := r.address
		routes := make(httpserver.Routes, len(r.routes))
		copy(routes, r.routes)
		timeouts := r.timeouts
		r.mutex.Unlock()

		config, err := httpserver.NewConfig(address, routes,
			httpserver.WithReadTimeout(timeouts.ReadTimeout),
			httpserver.WithWriteTimeout(timeouts.WriteTimeout),
			httpserver.WithIdleTimeout(timeouts.IdleTimeout),
			httpserver.WithDrainTimeout(timeouts.DrainTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP server config: %w", err)
		}

		return config, nil
	}

	server, err := httpserver.NewRunner(
		httpserver.WithConfigCallback(configCallback),
	)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server runner: %w", err)
	}

	r.server = server
	return nil
}

// String returns a unique identifier for this runner.
func (r *Runner) String() string {
	return "HTTPListener"
}

// Run starts the HTTP listener and blocks until shutdown.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Starting HTTP listener", "address", r.address, "routes", len(r.routes))
	return r.server.Run(ctx)
}

// Stop stops the HTTP listener.
func (r *Runner) Stop() {
	r.logger.Info("Stopping HTTP listener", "address", r.address)
	r.server.Stop()
}

// GetState returns the current state of the listener.
func (r *Runner) GetState() string {
	return r.server.GetState()
}

// IsRunning returns whether the listener is serving.
func (r *Runner) IsRunning() bool {
	return r.server.IsRunning()
}

// GetStateChan returns a channel that emits state changes.
func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.server.GetStateChan(ctx)
}

// Address returns the configured listen address.
func (r *Runner) Address() string {
	return r.address
}
