//go:build e2e

package server

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	serverCmd "github.com/atlanticdynamic/appidrelay/cmd/appidrelay/server"
	"github.com/atlanticdynamic/appidrelay/examples"
	"github.com/atlanticdynamic/appidrelay/internal/config"
	"github.com/atlanticdynamic/appidrelay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runServerWithConfig starts the relay with the given configuration and
// returns a cleanup function that shuts it down and dumps its logs.
func runServerWithConfig(
	t *testing.T,
	ctx context.Context,
	cfg *config.Config,
) (context.CancelFunc, error) {
	t.Helper()

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- serverCmd.Run(ctx, logger, cfg, false, "e2e-test")
	}()

	// Catch immediate startup failures before handing control back.
	select {
	case err := <-errCh:
		cancel()
		return nil, fmt.Errorf("relay failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	cleanup := func() {
		t.Log("Stopping relay...")
		cancel()

		select {
		case err := <-errCh:
			if err != nil {
				t.Logf("Relay stopped with error: %v", err)
			} else {
				t.Log("Relay stopped cleanly")
			}
		case <-time.After(5 * time.Second):
			t.Log("Relay shutdown timed out")
		}

		t.Logf("Relay logs:\n%s", logBuf.String())
	}

	return cleanup, nil
}

// waitForHTTPEndpoint polls url until it answers 200 or the timeout expires.
func waitForHTTPEndpoint(t *testing.T, url string, timeout, retryInterval time.Duration) bool {
	t.Helper()
	httpClient := &http.Client{Timeout: 2 * time.Second}

	return assert.Eventually(t, func() bool {
		resp, err := httpClient.Get(url)
		if err != nil {
			t.Logf("Request failed: %v", err)
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, timeout, retryInterval, "Endpoint never became available: %s", url)
}

// TestBasicServerStartup verifies the server comes up with a known good
// configuration file from the examples package.
func TestBasicServerStartup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping relay startup test in short mode")
	}

	t.Setenv(config.AuthTokenEnvVar, "e2e-token")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configData, err := examples.Configs.ReadFile("config/minimal.toml")
	require.NoError(t, err, "Failed to read example config file")

	cfg, err := config.NewConfigFromBytes(configData)
	require.NoError(t, err, "Failed to load example config")

	// The example pins :8080; rebind to a free port so an occupied port
	// cannot break the test.
	port := testutil.GetRandomPort(t)
	cfg.Server.Listen = fmt.Sprintf("127.0.0.1:%d", port)
	require.NoError(t, cfg.Validate())

	cleanup, err := runServerWithConfig(t, ctx, cfg)
	require.NoError(t, err, "Failed to start appidrelay server")
	defer cleanup()

	healthURL := fmt.Sprintf("http://%s%s", cfg.Server.Listen, cfg.Server.HealthPath)
	waitForHTTPEndpoint(t, healthURL, 5*time.Second, 100*time.Millisecond)
}
