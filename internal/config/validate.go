package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/atlanticdynamic/appidrelay/internal/config/errz"
	"github.com/atlanticdynamic/appidrelay/internal/interpolation"
	"golang.org/x/net/http/httpguts"
)

// Validate interpolates environment references and checks every section.
// All problems are reported together. A nil error means the config is final:
// nothing mutates it afterward.
func (c *Config) Validate() error {
	var errs []error

	if err := interpolation.InterpolateStruct(c); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", errz.ErrInterpolation, err))
	}

	if c.Version != VersionLatest {
		errs = append(errs, fmt.Errorf("%w: %q", errz.ErrUnsupportedConfigVer, c.Version))
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Upstream.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("upstream: %w", err))
	}

	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks the listener section.
func (s *ServerConfig) Validate() error {
	var errs []error

	if _, port, err := net.SplitHostPort(s.Listen); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q: %w", errz.ErrInvalidListenAddr, s.Listen, err))
	} else if port == "" {
		errs = append(errs, fmt.Errorf("%w: %q: missing port", errz.ErrInvalidListenAddr, s.Listen))
	}

	errs = append(errs, validatePath("mcp_path", s.MCPPath)...)
	errs = append(errs, validatePath("health_path", s.HealthPath)...)
	if s.MCPPath == s.HealthPath {
		errs = append(errs, fmt.Errorf("%w: mcp_path and health_path are both %q", errz.ErrInvalidPath, s.MCPPath))
	}

	s.InboundAuthToken = NormalizeBearerToken(s.InboundAuthToken)
	if s.InboundAuthToken != "" &&
		!httpguts.ValidHeaderFieldValue("Bearer "+s.InboundAuthToken) {
		errs = append(errs, fmt.Errorf("%w: inbound_auth_token", errz.ErrInvalidHeader))
	}

	return errors.Join(errs...)
}

// Validate checks the outbound section. The auth token is normalized here:
// a full "Bearer <token>" value from the environment is accepted, and the
// stored token is always the bare credential.
func (u *UpstreamConfig) Validate() error {
	var errs []error

	u.AuthToken = NormalizeBearerToken(u.AuthToken)
	switch {
	case u.AuthToken == "":
		errs = append(errs, fmt.Errorf("%w: set %s", errz.ErrMissingAuthToken, AuthTokenEnvVar))
	case !httpguts.ValidHeaderFieldValue("Bearer " + u.AuthToken):
		errs = append(errs, fmt.Errorf("%w: auth_token", errz.ErrInvalidHeader))
	}

	parsed, err := url.Parse(u.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("%w: %q: %w", errz.ErrInvalidBaseURL, u.BaseURL, err))
	case parsed.Scheme != "http" && parsed.Scheme != "https":
		errs = append(errs, fmt.Errorf("%w: %q: scheme must be http or https", errz.ErrInvalidBaseURL, u.BaseURL))
	case parsed.Host == "":
		errs = append(errs, fmt.Errorf("%w: %q: missing host", errz.ErrInvalidBaseURL, u.BaseURL))
	}

	if u.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s", errz.ErrInvalidTimeout, u.Timeout))
	}

	for name, value := range u.Headers {
		switch {
		case !httpguts.ValidHeaderFieldName(name):
			errs = append(errs, fmt.Errorf("%w: header name %q", errz.ErrInvalidHeader, name))
		case !httpguts.ValidHeaderFieldValue(value):
			errs = append(errs, fmt.Errorf("%w: header %q value", errz.ErrInvalidHeader, name))
		case strings.EqualFold(name, "Authorization"), strings.EqualFold(name, "Content-Type"):
			errs = append(errs, fmt.Errorf("%w: header %q is set by the relay", errz.ErrInvalidHeader, name))
		}
	}

	return errors.Join(errs...)
}

// Validate checks the logging section.
func (l *LogConfig) Validate() error {
	var errs []error

	if !l.Format.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", errz.ErrInvalidLogFormat, l.Format))
	}
	if !l.Level.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", errz.ErrInvalidLogLevel, l.Level))
	}

	return errors.Join(errs...)
}

// NormalizeBearerToken trims surrounding whitespace and strips a single
// leading "Bearer " prefix, so an environment variable can hold either the
// bare token or a full Authorization header value. An all-whitespace input
// normalizes to empty, which counts as missing.
func NormalizeBearerToken(raw string) string {
	token := strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(token, "Bearer "); ok {
		token = strings.TrimSpace(after)
	}
	return token
}

// validatePath checks one route path setting.
func validatePath(name, path string) []error {
	var errs []error

	if !strings.HasPrefix(path, "/") {
		errs = append(errs, fmt.Errorf("%w: %s %q must start with /", errz.ErrInvalidPath, name, path))
	}
	if strings.ContainsAny(path, " \t") {
		errs = append(errs, fmt.Errorf("%w: %s %q contains whitespace", errz.ErrInvalidPath, name, path))
	}

	return errs
}
