// Package errz provides shared error definitions for the config package.
package errz

import "errors"

// Load and version failures
var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedConfigVer   = errors.New("unsupported config version")
)

// Validation failures
var (
	ErrInterpolation     = errors.New("interpolation failed")
	ErrMissingAuthToken  = errors.New("missing upstream auth token")
	ErrInvalidBaseURL    = errors.New("invalid upstream base url")
	ErrInvalidTimeout    = errors.New("invalid upstream timeout")
	ErrInvalidListenAddr = errors.New("invalid listen address")
	ErrInvalidPath       = errors.New("invalid route path")
	ErrInvalidHeader     = errors.New("invalid header value")
	ErrInvalidLogFormat  = errors.New("invalid log format")
	ErrInvalidLogLevel   = errors.New("invalid log level")
)
