package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest captures what the gateway stub saw for one call.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

// UpstreamStub stands in for the appid gateway. It records every request and
// replies with a configurable status and body, so tests can drive each
// outcome of the relay without a real upstream.
type UpstreamStub struct {
	Server *httptest.Server

	mu           sync.Mutex
	requests     []RecordedRequest
	status       int
	body         string
	requireToken string
}

// NewUpstreamStub starts a stub gateway replying with the given status and
// body. The server shuts down via t.Cleanup.
func NewUpstreamStub(t *testing.T, status int, body string) *UpstreamStub {
	t.Helper()

	stub := &UpstreamStub{status: status, body: body}
	stub.Server = httptest.NewServer(http.HandlerFunc(stub.handle))
	t.Cleanup(stub.Server.Close)
	return stub
}

func (s *UpstreamStub) handle(w http.ResponseWriter, r *http.Request) {
	payload, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          payload,
	})
	status, body, requireToken := s.status, s.body, s.requireToken
	s.mu.Unlock()

	if requireToken != "" && r.Header.Get("Authorization") != "Bearer "+requireToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// URL returns the stub's base URL.
func (s *UpstreamStub) URL() string {
	return s.Server.URL
}

// SetResponse changes the reply for subsequent requests.
func (s *UpstreamStub) SetResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

// RequireToken makes the stub reject requests whose Authorization header is
// not "Bearer <token>".
func (s *UpstreamStub) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireToken = token
}

// Requests returns a copy of everything recorded so far.
func (s *UpstreamStub) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}
