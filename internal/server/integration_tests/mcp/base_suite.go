// Package mcp holds integration tests that drive the relay through a live
// HTTP listener with a real MCP client session and a stub upstream gateway.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/atlanticdynamic/appidrelay/internal/config"
	"github.com/atlanticdynamic/appidrelay/internal/logging"
	"github.com/atlanticdynamic/appidrelay/internal/relay"
	"github.com/atlanticdynamic/appidrelay/internal/server/mcpapp"
	"github.com/atlanticdynamic/appidrelay/internal/server/runnables/httplistener"
	"github.com/atlanticdynamic/appidrelay/internal/testutil"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/suite"
)

// RelayIntegrationTestSuite is a base test suite wiring a stub upstream, the
// relay, and a live HTTP listener together for MCP client tests.
type RelayIntegrationTestSuite struct {
	suite.Suite
	ctx         context.Context
	cancel      context.CancelFunc
	port        int
	upstream    *testutil.UpstreamStub
	httpRunner  *httplistener.Runner
	runnerErrCh chan error
	mcpClient   *mcpsdk.Client
	mcpSession  *mcpsdk.ClientSession
}

// SetupSuiteWithTemplate renders the configuration template against the
// allocated port and stub upstream URL, then starts the server.
func (s *RelayIntegrationTestSuite) SetupSuiteWithTemplate(templateContent string) {
	s.setupEnv()

	templateVars := struct {
		Port        int
		UpstreamURL string
	}{
		Port:        s.port,
		UpstreamURL: s.upstream.URL(),
	}

	tmpl, err := template.New("config").Parse(templateContent)
	s.Require().NoError(err, "Failed to parse template")

	var configBuffer strings.Builder
	err = tmpl.Execute(&configBuffer, templateVars)
	s.Require().NoError(err, "Failed to render config template")

	configData := configBuffer.String()
	s.T().Logf("Rendered relay config:\n%s", configData)

	cfg, err := config.NewConfigFromBytes([]byte(configData))
	s.Require().NoError(err, "Failed to load config")

	s.startServerWithConfig(cfg)
	s.connectMCP()
}

// setupEnv allocates the port, run context, and stub upstream.
func (s *RelayIntegrationTestSuite) setupEnv() {
	logging.SetupLogger("text", "debug", os.Stderr)
	s.ctx, s.cancel = context.WithCancel(s.T().Context())
	s.port = testutil.GetRandomPort(s.T())
	s.upstream = testutil.NewUpstreamStub(s.T(), http.StatusOK, `{"appid":"default-integration"}`)
	s.runnerErrCh = make(chan error, 1)
}

// startServerWithConfig builds the relay pipeline from the configuration and
// starts the HTTP listener in the background.
func (s *RelayIntegrationTestSuite) startServerWithConfig(cfg *config.Config) {
	s.Require().NoError(cfg.Validate(), "Config validation failed")

	logger := slog.Default()

	rly := relay.New(
		cfg.Upstream.BaseURL,
		cfg.Upstream.AuthToken,
		relay.WithTimeout(cfg.Upstream.Timeout.AsDuration()),
		relay.WithHeaders(cfg.Upstream.Headers),
		relay.WithLogger(logger.WithGroup("relay")),
	)

	mcpServer, err := mcpapp.NewServer(rly, "integration-test", logger.WithGroup("mcp"))
	s.Require().NoError(err)

	app, err := mcpapp.New(&mcpapp.Config{ID: "mcp", CompiledServer: mcpServer})
	s.Require().NoError(err)

	routes, err := httplistener.Routes(cfg.Server, app, logger)
	s.Require().NoError(err)

	s.httpRunner, err = httplistener.NewRunner(
		cfg.Server.Listen,
		routes,
		httplistener.WithLogger(logger.WithGroup("httplistener")),
	)
	s.Require().NoError(err)

	go func() {
		s.runnerErrCh <- s.httpRunner.Run(s.ctx)
	}()

	s.Require().Eventually(func() bool {
		select {
		case err := <-s.runnerErrCh:
			s.T().Fatalf("HTTP runner failed to start: %v", err)
			return false
		default:
			return s.httpRunner.IsRunning()
		}
	}, time.Second, 10*time.Millisecond, "HTTP runner should start")
}

// connectMCP probes the endpoint until it accepts a session, then opens
// the session shared by the tests.
func (s *RelayIntegrationTestSuite) connectMCP() {
	s.Require().Eventually(func() bool {
		transport := &mcpsdk.StreamableClientTransport{
			Endpoint: s.mcpURL(),
		}

		probe := mcpsdk.NewClient(
			&mcpsdk.Implementation{Name: "probe-client", Version: "1.0.0"},
			nil,
		)
		session, err := probe.Connect(s.ctx, transport, nil)
		if err != nil {
			return false
		}
		s.NoError(session.Close())
		return true
	}, 10*time.Second, 100*time.Millisecond, "endpoint never accepted an MCP session")

	transport := &mcpsdk.StreamableClientTransport{
		Endpoint: s.mcpURL(),
	}
	s.mcpClient = mcpsdk.NewClient(
		&mcpsdk.Implementation{Name: "integration-test-client", Version: "1.0.0"},
		nil,
	)

	var err error
	s.mcpSession, err = s.mcpClient.Connect(s.ctx, transport, nil)
	s.Require().NoError(err, "Failed to establish MCP session")
}

// TearDownSuite closes the session and stops the listener.
func (s *RelayIntegrationTestSuite) TearDownSuite() {
	// Session first, listener second, or the close shows up as a
	// connection reset.
	if s.mcpSession != nil {
		if err := s.mcpSession.Close(); err != nil {
			s.T().Logf("MCP session close error (may be expected during shutdown): %v", err)
		}
	}

	if s.cancel != nil {
		s.cancel()
	}

	if s.httpRunner != nil {
		s.httpRunner.Stop()

		s.Require().Eventually(func() bool {
			return !s.httpRunner.IsRunning()
		}, time.Second, 10*time.Millisecond, "HTTP runner should stop")
	}
}

// mcpURL returns the MCP endpoint URL for the allocated port.
func (s *RelayIntegrationTestSuite) mcpURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/mcp", s.port)
}

// GetMCPSession returns the session shared by the suite's tests.
func (s *RelayIntegrationTestSuite) GetMCPSession() *mcpsdk.ClientSession {
	return s.mcpSession
}

// GetContext returns the suite context.
func (s *RelayIntegrationTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetPort returns the listener port.
func (s *RelayIntegrationTestSuite) GetPort() int {
	return s.port
}

// Upstream returns the stub gateway so tests can stage responses and inspect
// recorded requests.
func (s *RelayIntegrationTestSuite) Upstream() *testutil.UpstreamStub {
	return s.upstream
}
