package main

import (
	"fmt"

	"github.com/atlanticdynamic/appidrelay/internal/logging"
	"github.com/atlanticdynamic/appidrelay/internal/logging/writers"
)

// SetupLogger configures the process-wide default logger from CLI flags.
// Logs default to stderr so stdio MCP sessions keep stdout for protocol
// frames.
func SetupLogger(format, level, output string) error {
	writer, err := writers.CreateWriter(output)
	if err != nil {
		return fmt.Errorf("failed to open log output: %w", err)
	}
	logging.SetupLogger(format, level, writer)
	return nil
}
