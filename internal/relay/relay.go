// Package relay implements the typed request relay at the core of appidrelay:
// each inbound request becomes exactly one outbound HTTP POST against a fixed
// upstream endpoint, and every outcome maps onto a uniform result envelope.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

const (
	// DefaultTimeout bounds each upstream call.
	DefaultTimeout = 30 * time.Second

	// FetchAppIDPath is appended to the configured upstream base URL.
	FetchAppIDPath = "/fetch-appid"

	// maxResponseBytes caps how much of an upstream response body is read.
	maxResponseBytes = 4 << 20

	// maxDetailBytes caps how much upstream body is quoted in failure details.
	maxDetailBytes = 4 << 10
)

// Relay issues the outbound fetch-appid call. It holds no per-call state and
// is safe for concurrent use; configuration is fixed at construction.
type Relay struct {
	endpoint  string
	authToken string
	headers   map[string]string
	timeout   time.Duration
	client    *http.Client
	logger    *slog.Logger
}

// Option is a functional option for configuring a Relay.
type Option func(*Relay)

// WithTimeout overrides the default upstream call timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Relay) {
		if c != nil {
			r.client = c
		}
	}
}

// WithHeaders adds extra headers to every upstream request. The map is copied
// at construction; the relay's own Authorization and Content-Type headers
// always take precedence.
func WithHeaders(headers map[string]string) Option {
	return func(r *Relay) {
		if len(headers) == 0 {
			return
		}
		r.headers = make(map[string]string, len(headers))
		for name, value := range headers {
			r.headers[name] = value
		}
	}
}

// WithLogger sets the logger used for the per-outcome log line.
func WithLogger(l *slog.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Relay posting to baseURL + FetchAppIDPath with the given
// bearer token on every call.
func New(baseURL, authToken string, opts ...Option) *Relay {
	r := &Relay{
		endpoint:  strings.TrimRight(baseURL, "/") + FetchAppIDPath,
		authToken: authToken,
		timeout:   DefaultTimeout,
		logger:    slog.Default().WithGroup("relay"),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		r.client = newHTTPClient()
	}

	return r
}

// Endpoint returns the full upstream URL targeted by Handle.
func (r *Relay) Endpoint() string {
	return r.endpoint
}

// Timeout returns the per-call upstream timeout.
func (r *Relay) Timeout() time.Duration {
	return r.timeout
}

// newHTTPClient builds the pooled transport used for upstream calls. The
// overall deadline comes from the per-call context, not a client timeout, so
// caller cancellation composes with the relay's own bound.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{Transport: transport}
}

// Handle forwards one validated request upstream and maps the outcome onto a
// Result. It assumes req already passed Validate; field values are serialized
// into the upstream payload verbatim. Exactly one outbound call is made per
// invocation, with no retries.
func (r *Relay) Handle(ctx context.Context, req Request) *Result {
	requestID := uuid.Must(uuid.NewV6()).String()
	logger := r.logger.With("request_id", requestID)

	payload, err := json.Marshal(req)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to encode upstream payload", "error", err)
		return Fail(ErrorKindInternal, fmt.Sprintf("encode upstream payload: %v", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(
		callCtx,
		http.MethodPost,
		r.endpoint,
		bytes.NewReader(payload),
	)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build upstream request", "error", err)
		return Fail(ErrorKindInternal, fmt.Sprintf("build upstream request: %v", err))
	}
	for name, value := range r.headers {
		httpReq.Header.Set(name, value)
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.authToken)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(httpReq)
	if err != nil {
		return r.classifyTransportFailure(ctx, logger, err, time.Since(start))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read upstream response",
			"error", err,
			"status", resp.StatusCode,
		)
		return Fail(ErrorKindUpstreamUnreachable, fmt.Sprintf("read upstream response: %v", err))
	}

	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.WarnContext(ctx, "Upstream returned non-success status",
			"status", resp.StatusCode,
			"duration", duration,
		)
		return FailWithDetails(
			ErrorKindUpstreamStatus,
			fmt.Sprintf("upstream returned status %d", resp.StatusCode),
			formatStatusDetails(resp.StatusCode, body),
		)
	}

	if !json.Valid(body) {
		logger.WarnContext(ctx, "Upstream response is not valid JSON",
			"status", resp.StatusCode,
			"duration", duration,
		)
		return FailWithDetails(
			ErrorKindUpstreamProtocol,
			"upstream response is not valid JSON",
			truncateDetail(body),
		)
	}

	logger.InfoContext(ctx, "Upstream call succeeded",
		"status", resp.StatusCode,
		"duration", duration,
		"response_bytes", len(body),
	)
	return Success(body)
}

// classifyTransportFailure maps an error from the HTTP client onto the
// envelope taxonomy. Timeouts and network failures where no response arrived
// are UpstreamUnreachable; anything left over is InternalError.
func (r *Relay) classifyTransportFailure(
	ctx context.Context,
	logger *slog.Logger,
	err error,
	elapsed time.Duration,
) *Result {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		logger.ErrorContext(ctx, "Upstream call timed out",
			"timeout", r.timeout,
			"elapsed", elapsed,
		)
		return Fail(
			ErrorKindUpstreamUnreachable,
			fmt.Sprintf("upstream call timed out after %s", r.timeout),
		)
	case errors.Is(err, context.Canceled):
		logger.WarnContext(ctx, "Upstream call canceled", "elapsed", elapsed)
		return Fail(ErrorKindUpstreamUnreachable, "upstream call canceled")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		logger.ErrorContext(ctx, "Upstream call timed out",
			"error", err,
			"elapsed", elapsed,
		)
		return Fail(
			ErrorKindUpstreamUnreachable,
			fmt.Sprintf("upstream call timed out after %s", r.timeout),
		)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		logger.ErrorContext(ctx, "Upstream unreachable",
			"error", err,
			"elapsed", elapsed,
		)
		return Fail(ErrorKindUpstreamUnreachable, fmt.Sprintf("upstream unreachable: %v", urlErr.Err))
	}

	logger.ErrorContext(ctx, "Unexpected upstream call failure",
		"error", err,
		"elapsed", elapsed,
	)
	return Fail(ErrorKindInternal, fmt.Sprintf("unexpected failure calling upstream: %v", err))
}

// formatStatusDetails renders "<code> <text>: <body>" for status failures, so
// the caller sees the original status code and response body for diagnosis.
func formatStatusDetails(status int, body []byte) string {
	detail := fmt.Sprintf("%d %s", status, http.StatusText(status))
	if quoted := truncateDetail(body); quoted != "" {
		detail += ": " + quoted
	}
	return detail
}

// truncateDetail bounds an upstream body for inclusion in failure details.
func truncateDetail(body []byte) string {
	detail := strings.TrimSpace(string(body))
	if len(detail) > maxDetailBytes {
		detail = detail[:maxDetailBytes] + "...(truncated)"
	}
	return detail
}
