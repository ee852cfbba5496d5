package config

import (
	"fmt"
	"strings"
)

// LogConfig carries the logging portion of the server config.
type LogConfig struct {
	Format LogFormat `toml:"format"`
	Level  LogLevel  `toml:"level"`
	Output string    `toml:"output" env_interpolation:"yes"`
}

// LogFormat selects the slog handler flavor.
type LogFormat string

// LogLevel sets the minimum level the handler emits.
type LogLevel string

const (
	LogFormatUnspecified LogFormat = ""
	LogFormatText        LogFormat = "text"
	LogFormatJSON        LogFormat = "json"
)

const (
	LogLevelUnspecified LogLevel = ""
	LogLevelTrace       LogLevel = "trace"
	LogLevelDebug       LogLevel = "debug"
	LogLevelInfo        LogLevel = "info"
	LogLevelWarn        LogLevel = "warn"
	LogLevelError       LogLevel = "error"
)

func (f LogFormat) String() string { return string(f) }

func (l LogLevel) String() string { return string(l) }

// IsValid reports whether f is one of the known formats.
func (f LogFormat) IsValid() bool {
	switch f {
	case LogFormatUnspecified, LogFormatText, LogFormatJSON:
		return true
	default:
		return false
	}
}

// IsValid reports whether l is one of the known levels.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelUnspecified, LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// LogFormatFromString parses a format name. Matching is case-insensitive
// and "txt" is accepted as an alias, so env values like FORMAT=JSON work.
func LogFormatFromString(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return LogFormatJSON, nil
	case "text", "txt":
		return LogFormatText, nil
	case "":
		return LogFormatUnspecified, nil
	default:
		return LogFormatUnspecified, fmt.Errorf("unknown log format: %s", format)
	}
}

// LogLevelFromString parses a level name, case-insensitively. "warning"
// is accepted as an alias for "warn".
func LogLevelFromString(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LogLevelTrace, nil
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "":
		return LogLevelUnspecified, nil
	default:
		return LogLevelUnspecified, fmt.Errorf("unknown log level: %s", level)
	}
}
