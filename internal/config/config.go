// Package config holds the domain configuration for the appidrelay gateway.
// A Config is loaded once at startup, validated, and never mutated afterward;
// every component receives plain values copied out of it.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atlanticdynamic/appidrelay/internal/config/errz"
	"github.com/atlanticdynamic/appidrelay/internal/relay"
	"github.com/pelletier/go-toml/v2"
)

const (
	// VersionLatest is the only config schema version this build accepts.
	VersionLatest = "v1"

	// DefaultListen is used when neither config, flags, nor PORT say otherwise.
	DefaultListen = ":8000"

	// DefaultMCPPath mounts the MCP streamable HTTP handler.
	DefaultMCPPath = "/mcp"

	// DefaultHealthPath mounts the liveness endpoint.
	DefaultHealthPath = "/healthz"

	// DefaultUpstreamBaseURL is the gateway base the fetch-appid path is
	// appended to.
	DefaultUpstreamBaseURL = "https://intercom-api-gateway.moengage.com/v2/iw"

	// AuthTokenEnvVar is the canonical environment variable holding the
	// upstream bearer token.
	AuthTokenEnvVar = "APPIDRELAY_AUTH_TOKEN"

	// UpstreamURLEnvVar overrides the default upstream base URL when the
	// config file does not set one.
	UpstreamURLEnvVar = "APPIDRELAY_UPSTREAM_URL"

	// ListenEnvVar supplies a full listen address when none is configured.
	// Takes precedence over PortEnvVar.
	ListenEnvVar = "APPIDRELAY_LISTEN"

	// PortEnvVar optionally supplies the listen port when no address is
	// configured.
	PortEnvVar = "PORT"

	// InboundTokenEnvVar supplies the inbound bearer token guarding the MCP
	// endpoint when the config file does not set one.
	InboundTokenEnvVar = "APPIDRELAY_INBOUND_TOKEN"

	// LogFormatEnvVar and LogLevelEnvVar fill the log section when the config
	// file leaves it unset.
	LogFormatEnvVar = "APPIDRELAY_LOG_FORMAT"
	LogLevelEnvVar  = "APPIDRELAY_LOG_LEVEL"
)

// Config is the root of the domain configuration.
type Config struct {
	Version  string         `toml:"version"`
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig configures the inbound listener.
type ServerConfig struct {
	Listen     string `toml:"listen"      env_interpolation:"yes"`
	MCPPath    string `toml:"mcp_path"`
	HealthPath string `toml:"health_path"`

	// InboundAuthToken optionally gates the HTTP listener with its own
	// bearer check. Empty disables inbound auth.
	InboundAuthToken string `toml:"inbound_auth_token" env_interpolation:"yes"`
}

// UpstreamConfig configures the single outbound endpoint.
type UpstreamConfig struct {
	BaseURL   string   `toml:"base_url"   env_interpolation:"yes"`
	AuthToken string   `toml:"auth_token" env_interpolation:"yes"`
	Timeout   Duration `toml:"timeout"`

	// Headers are optional extra headers sent on every upstream request.
	// Authorization and Content-Type are owned by the relay and cannot be
	// set here.
	Headers map[string]string `toml:"headers" env_interpolation:"yes"`
}

// NewConfig loads, defaults, and validates configuration from a TOML file.
func NewConfig(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: file does not exist: %s", errz.ErrFailedToLoadConfig, filePath)
	}

	if ext := filepath.Ext(filePath); ext != ".toml" {
		return nil, fmt.Errorf("%w: unsupported config extension: %q", errz.ErrFailedToLoadConfig, ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}

	return NewConfigFromBytes(data)
}

// NewConfigFromReader loads configuration from an io.Reader of TOML data.
func NewConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	return NewConfigFromBytes(data)
}

// NewConfigFromBytes loads, defaults, and validates configuration from TOML
// bytes.
func NewConfigFromBytes(data []byte) (*Config, error) {
	// Extract just the version first so a schema mismatch is reported before
	// any field-level parse error.
	var versionCheck struct {
		Version string `toml:"version"`
	}
	if err := toml.Unmarshal(data, &versionCheck); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	if versionCheck.Version != "" && versionCheck.Version != VersionLatest {
		return nil, fmt.Errorf("%w: %q", errz.ErrUnsupportedConfigVer, versionCheck.Version)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToValidateConfig, err)
	}

	return cfg, nil
}

// Default returns the built-in configuration used when no TOML file is given:
// the stock upstream base URL, the auth token from the environment, and the
// listen address from PORT. The result is already validated.
func Default() (*Config, error) {
	cfg := &Config{}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToValidateConfig, err)
	}
	return cfg, nil
}

// setDefaults fills every unset field, consulting the APPIDRELAY_* override
// variables before falling back to canonical defaults. The auth token default
// is an interpolation reference so a missing environment variable is reported
// by name during validation.
func (c *Config) setDefaults() {
	if c.Version == "" {
		c.Version = VersionLatest
	}

	if c.Server.Listen == "" {
		switch {
		case os.Getenv(ListenEnvVar) != "":
			c.Server.Listen = os.Getenv(ListenEnvVar)
		case os.Getenv(PortEnvVar) != "":
			c.Server.Listen = ":" + os.Getenv(PortEnvVar)
		default:
			c.Server.Listen = DefaultListen
		}
	}
	if c.Server.MCPPath == "" {
		c.Server.MCPPath = DefaultMCPPath
	}
	if c.Server.HealthPath == "" {
		c.Server.HealthPath = DefaultHealthPath
	}
	if c.Server.InboundAuthToken == "" {
		c.Server.InboundAuthToken = os.Getenv(InboundTokenEnvVar)
	}

	if c.Upstream.BaseURL == "" {
		if base := os.Getenv(UpstreamURLEnvVar); base != "" {
			c.Upstream.BaseURL = base
		} else {
			c.Upstream.BaseURL = DefaultUpstreamBaseURL
		}
	}
	if c.Upstream.AuthToken == "" {
		c.Upstream.AuthToken = "${" + AuthTokenEnvVar + "}"
	}
	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = Duration(relay.DefaultTimeout)
	}

	if c.Log.Format == LogFormatUnspecified {
		c.Log.Format = LogFormat(os.Getenv(LogFormatEnvVar))
	}
	if c.Log.Level == LogLevelUnspecified {
		c.Log.Level = LogLevel(os.Getenv(LogLevelEnvVar))
	}
}
