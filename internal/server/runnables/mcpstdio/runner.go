// Package mcpstdio serves the MCP server over stdio as a supervisor
// runnable. Protocol frames own stdout, so anything running alongside this
// runnable must log to stderr or a file.
package mcpstdio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/appidrelay/internal/server/finitestate"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// ErrNilServer is returned when creating a Runner without a compiled server.
var ErrNilServer = errors.New("MCP server is nil")

// mcpServer abstracts the SDK server for lifecycle tests.
type mcpServer interface {
	Run(ctx context.Context, t mcpsdk.Transport) error
}

// Runner drives one MCP session over a transport, stdio by default.
type Runner struct {
	srv       mcpServer
	transport mcpsdk.Transport

	logger *slog.Logger
	fsm    finitestate.Machine

	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context
}

// NewRunner creates a Runner serving the given compiled MCP server.
func NewRunner(server *mcpsdk.Server, opts ...Option) (*Runner, error) {
	if server == nil {
		return nil, ErrNilServer
	}

	runner := &Runner{
		srv:       server,
		transport: &mcpsdk.StdioTransport{},
		logger:    slog.Default().WithGroup("mcpstdio.Runner"),
		parentCtx: context.Background(),
	}

	for _, opt := range opts {
		opt(runner)
	}

	fsm, err := finitestate.New(runner.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	runner.fsm = fsm

	return runner, nil
}

// String implements the supervisor.Runnable interface.
func (r *Runner) String() string {
	return "mcpstdio.Runner"
}

// Run serves the MCP session until the transport closes or the context is
// canceled. A closed stdin (client disconnect) is a clean stop.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting Runner")

	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	r.runCtx, r.runCancel = context.WithCancel(ctx)
	defer r.runCancel()

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}
	r.logger.Info("Serving MCP over stdio")

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.srv.Run(r.runCtx, r.transport)
	}()

	var runErr error
	select {
	case <-r.parentCtx.Done():
		r.logger.Debug("Parent context canceled")
		r.runCancel()
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		r.logger.Error("MCP session ended with error", "error", runErr)
		if stateErr := r.fsm.Transition(finitestate.StatusError); stateErr != nil {
			r.logger.Error("Failed to transition to error state", "error", stateErr)
		}
		return fmt.Errorf("mcp stdio session: %w", runErr)
	}

	r.logger.Info("Runner shutting down")

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}

	return nil
}

// Stop implements the supervisor.Runnable interface.
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Error("Failed to transition to stopping state", "error", err)
	}
	if r.runCancel != nil {
		r.runCancel()
	}
}

// GetState returns the current lifecycle state.
func (r *Runner) GetState() string {
	return r.fsm.GetState()
}

// GetStateChan returns a channel that emits state changes.
func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.fsm.GetStateChan(ctx)
}

// IsRunning returns whether an MCP session is being served.
func (r *Runner) IsRunning() bool {
	return r.fsm.GetState() == finitestate.StatusRunning
}
