// Package finitestate wraps go-fsm with the lifecycle states the relay's
// runnables move through under the supervisor.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew      = fsm.StatusNew
	StatusBooting  = fsm.StatusBooting
	StatusRunning  = fsm.StatusRunning
	StatusStopping = fsm.StatusStopping
	StatusStopped  = fsm.StatusStopped
	StatusError    = fsm.StatusError
)

// Machine is the slice of the go-fsm surface the runnables consume.
type Machine interface {
	// Transition moves the machine to state, failing when the edge is not
	// in the transition table.
	Transition(state string) error

	// GetState returns the current state.
	GetState() string

	// GetStateChan emits the state on every change until ctx is canceled.
	GetStateChan(ctx context.Context) <-chan string
}

// RunnableFSM embeds fsm.Machine and overrides GetStateChan for sync broadcast.
type RunnableFSM struct {
	*fsm.Machine
}

// GetStateChan returns a sync broadcast channel with a 5-second timeout so
// state updates are delivered during shutdown.
func (m *RunnableFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, fsm.WithSyncTimeout(5*time.Second))
}

// New creates a machine in StatusNew wired with the standard lifecycle
// transition table.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StatusNew, fsm.TypicalTransitions)
	if err != nil {
		return nil, err
	}
	return &RunnableFSM{Machine: machine}, nil
}
