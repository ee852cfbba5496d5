package config

import (
	"testing"

	"github.com/atlanticdynamic/appidrelay/internal/config/errz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBearerToken(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare token", "abc123", "abc123"},
		{"leading and trailing whitespace", "  abc123\n", "abc123"},
		{"full header value", "Bearer abc123", "abc123"},
		{"header value with extra spaces", "  Bearer   abc123  ", "abc123"},
		{"empty", "", ""},
		{"whitespace only", "   \t\n", ""},
		{"prefix only", "Bearer ", ""},
		{"prefix is case sensitive", "bearer abc123", "bearer abc123"},
		{"prefix stripped once", "Bearer Bearer abc123", "Bearer abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBearerToken(tt.raw))
		})
	}
}

func TestServerConfigValidate(t *testing.T) {
	valid := func() ServerConfig {
		return ServerConfig{
			Listen:     ":8000",
			MCPPath:    "/mcp",
			HealthPath: "/healthz",
		}
	}

	t.Run("valid", func(t *testing.T) {
		s := valid()
		require.NoError(t, s.Validate())
	})

	t.Run("valid with inbound token", func(t *testing.T) {
		s := valid()
		s.InboundAuthToken = "Bearer inbound-secret"
		require.NoError(t, s.Validate())
		assert.Equal(t, "inbound-secret", s.InboundAuthToken)
	})

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr error
	}{
		{
			name:    "empty listen",
			mutate:  func(s *ServerConfig) { s.Listen = "" },
			wantErr: errz.ErrInvalidListenAddr,
		},
		{
			name:    "listen without port",
			mutate:  func(s *ServerConfig) { s.Listen = "localhost" },
			wantErr: errz.ErrInvalidListenAddr,
		},
		{
			name:    "listen with empty port",
			mutate:  func(s *ServerConfig) { s.Listen = "localhost:" },
			wantErr: errz.ErrInvalidListenAddr,
		},
		{
			name:    "mcp path without leading slash",
			mutate:  func(s *ServerConfig) { s.MCPPath = "mcp" },
			wantErr: errz.ErrInvalidPath,
		},
		{
			name:    "health path with whitespace",
			mutate:  func(s *ServerConfig) { s.HealthPath = "/health z" },
			wantErr: errz.ErrInvalidPath,
		},
		{
			name:    "identical paths",
			mutate:  func(s *ServerConfig) { s.HealthPath = "/mcp" },
			wantErr: errz.ErrInvalidPath,
		},
		{
			name:    "inbound token with control characters",
			mutate:  func(s *ServerConfig) { s.InboundAuthToken = "tok\x00en" },
			wantErr: errz.ErrInvalidHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpstreamConfigValidate(t *testing.T) {
	valid := func() UpstreamConfig {
		return UpstreamConfig{
			BaseURL:   "https://gateway.example.com/v2/iw",
			AuthToken: "tok",
			Timeout:   Duration(30_000_000_000),
		}
	}

	t.Run("valid", func(t *testing.T) {
		u := valid()
		require.NoError(t, u.Validate())
	})

	t.Run("normalizes token in place", func(t *testing.T) {
		u := valid()
		u.AuthToken = "Bearer wrapped"
		require.NoError(t, u.Validate())
		assert.Equal(t, "wrapped", u.AuthToken)
	})

	tests := []struct {
		name    string
		mutate  func(*UpstreamConfig)
		wantErr error
	}{
		{
			name:    "empty token",
			mutate:  func(u *UpstreamConfig) { u.AuthToken = "" },
			wantErr: errz.ErrMissingAuthToken,
		},
		{
			name:    "whitespace-only token",
			mutate:  func(u *UpstreamConfig) { u.AuthToken = "  \n " },
			wantErr: errz.ErrMissingAuthToken,
		},
		{
			name:    "token invalid in a header",
			mutate:  func(u *UpstreamConfig) { u.AuthToken = "tok\nen" },
			wantErr: errz.ErrInvalidHeader,
		},
		{
			name:    "empty base url",
			mutate:  func(u *UpstreamConfig) { u.BaseURL = "" },
			wantErr: errz.ErrInvalidBaseURL,
		},
		{
			name:    "unsupported scheme",
			mutate:  func(u *UpstreamConfig) { u.BaseURL = "ftp://gateway.example.com" },
			wantErr: errz.ErrInvalidBaseURL,
		},
		{
			name:    "missing host",
			mutate:  func(u *UpstreamConfig) { u.BaseURL = "https://" },
			wantErr: errz.ErrInvalidBaseURL,
		},
		{
			name:    "zero timeout",
			mutate:  func(u *UpstreamConfig) { u.Timeout = 0 },
			wantErr: errz.ErrInvalidTimeout,
		},
		{
			name:    "negative timeout",
			mutate:  func(u *UpstreamConfig) { u.Timeout = Duration(-1) },
			wantErr: errz.ErrInvalidTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid()
			tt.mutate(&u)
			err := u.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogConfigValidate(t *testing.T) {
	t.Run("empty is valid", func(t *testing.T) {
		l := LogConfig{}
		require.NoError(t, l.Validate())
	})

	t.Run("known values", func(t *testing.T) {
		l := LogConfig{Format: LogFormatJSON, Level: LogLevelTrace, Output: "stderr"}
		require.NoError(t, l.Validate())
	})

	t.Run("bad format", func(t *testing.T) {
		l := LogConfig{Format: "xml"}
		err := l.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, errz.ErrInvalidLogFormat)
	})

	t.Run("bad level", func(t *testing.T) {
		l := LogConfig{Level: "verbose"}
		err := l.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, errz.ErrInvalidLogLevel)
	})
}

func TestConfigValidate_SectionPrefixes(t *testing.T) {
	t.Setenv(AuthTokenEnvVar, "env-token")

	cfg, err := Default()
	require.NoError(t, err)

	cfg.Server.Listen = "nope"
	cfg.Log.Level = "verbose"

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errz.ErrInvalidListenAddr)
	assert.ErrorIs(t, err, errz.ErrInvalidLogLevel)
	assert.Contains(t, err.Error(), "server:")
	assert.Contains(t, err.Error(), "log:")
}

func TestConfigValidate_InterpolationFailure(t *testing.T) {
	cfg := &Config{
		Version: VersionLatest,
		Server: ServerConfig{
			Listen:     ":8000",
			MCPPath:    "/mcp",
			HealthPath: "/healthz",
		},
		Upstream: UpstreamConfig{
			BaseURL:   "https://${DEFINITELY_NOT_SET_GATEWAY_HOST}/v2",
			AuthToken: "tok",
			Timeout:   Duration(1),
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errz.ErrInterpolation)
	assert.Contains(t, err.Error(), "DEFINITELY_NOT_SET_GATEWAY_HOST")
}
