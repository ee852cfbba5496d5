// Package accesslog provides request logging middleware for the HTTP listener.
package accesslog

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
)

// lgr is the slice of slog.Logger the middleware needs
type lgr interface {
	LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr)
}

// AccessLogger emits one log line per request. Bodies are never captured:
// requests carry credentials in headers and responses may carry appids.
type AccessLogger struct {
	logger lgr
}

// New creates an AccessLogger writing through the given logger.
func New(logger *slog.Logger) *AccessLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessLogger{
		logger: logger.WithGroup("http"),
	}
}

// Middleware returns the middleware function.
func (al *AccessLogger) Middleware() httpserver.HandlerFunc {
	return func(rp *httpserver.RequestProcessor) {
		r := rp.Request()
		start := time.Now()

		// run the rest of the chain before reading the response status
		rp.Next()

		w := rp.Writer()
		status := w.Status()
		if status == 0 {
			status = http.StatusOK
		}

		al.logger.LogAttrs(r.Context(), levelFor(status), "HTTP request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", w.Size()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote", r.RemoteAddr),
		)
	}
}

// levelFor maps a status code to a log level.
func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
