// Package bearerauth provides bearer token authentication middleware for the
// HTTP listener's MCP endpoint.
package bearerauth

import (
	"crypto/subtle"
	"net/http"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
)

// Authenticator rejects requests whose Authorization header does not carry
// the expected bearer token.
type Authenticator struct {
	expected string
}

// New creates an Authenticator for the given token. The token must be the
// bare credential, not a full header value.
func New(token string) *Authenticator {
	return &Authenticator{
		expected: "Bearer " + token,
	}
}

// Middleware returns the middleware function. The header comparison is
// constant-time. On mismatch it writes 401 and does not call the rest of
// the chain.
func (a *Authenticator) Middleware() httpserver.HandlerFunc {
	return func(rp *httpserver.RequestProcessor) {
		header := rp.Request().Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(header), []byte(a.expected)) != 1 {
			w := rp.Writer()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}

		rp.Next()
	}
}
