package main

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)

	// The coarsest enabled slog level reveals the level the handler was
	// built with.
	coarsestEnabled := func(logger *slog.Logger) slog.Level {
		for _, lvl := range []slog.Level{
			slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError,
		} {
			if logger.Enabled(t.Context(), lvl) {
				return lvl
			}
		}
		return slog.LevelError + 1
	}

	for input, want := range map[string]slog.Level{
		"trace": slog.LevelDebug,
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	} {
		require.NoError(t, SetupLogger("text", input, "stderr"))
		assert.Equal(t, want, coarsestEnabled(slog.Default()), "level input %q", input)
	}
}

func TestSetupLogger_FileOutput(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)

	logPath := filepath.Join(t.TempDir(), "relay.log")
	require.NoError(t, SetupLogger("json", "info", logPath))

	slog.Info("written to file")

	assert.FileExists(t, logPath)
}

func TestSetupLogger_BadOutput(t *testing.T) {
	err := SetupLogger("text", "info", "ftp://example.com/log")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log output")
}
