package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// levelTraits describes how a level string shapes handler construction. The
// "trace" pseudo-level is debug plus caller and timestamp reporting.
type levelTraits struct {
	level           slog.Level
	reportCaller    bool
	reportTimestamp bool
}

func parseLevel(logLevel string) levelTraits {
	switch strings.ToLower(logLevel) {
	case "trace":
		return levelTraits{level: slog.LevelDebug, reportCaller: true, reportTimestamp: true}
	case "debug":
		return levelTraits{level: slog.LevelDebug, reportTimestamp: true}
	case "warn", "warning":
		return levelTraits{level: slog.LevelWarn}
	case "error":
		return levelTraits{level: slog.LevelError}
	default:
		return levelTraits{level: slog.LevelInfo}
	}
}

func charmLevel(level slog.Level) log.Level {
	switch {
	case level <= slog.LevelDebug:
		return log.DebugLevel
	case level < slog.LevelWarn:
		return log.InfoLevel
	case level < slog.LevelError:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

// SetupHandlerText returns a charmbracelet text handler for the given level.
// A nil writer defaults to stderr.
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	traits := parseLevel(logLevel)
	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: traits.reportTimestamp,
		ReportCaller:    traits.reportCaller,
		Level:           charmLevel(traits.level),
	})
}

// SetupHandlerJSON returns a JSON slog handler for the given level. A nil
// writer defaults to stdout.
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}

	traits := parseLevel(logLevel)
	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     traits.level,
		AddSource: traits.reportCaller,
	})
}

// SetupHandler selects a handler implementation based on the format string.
// Any format other than "json" falls back to the text handler.
func SetupHandler(logFormat, logLevel string, writer io.Writer) slog.Handler {
	if strings.ToLower(logFormat) == "json" {
		return SetupHandlerJSON(logLevel, writer)
	}
	return SetupHandlerText(logLevel, writer)
}

// SetupLogger configures the process default logger.
func SetupLogger(logFormat, logLevel string, writer io.Writer) {
	slog.SetDefault(slog.New(SetupHandler(logFormat, logLevel, writer)))
}
