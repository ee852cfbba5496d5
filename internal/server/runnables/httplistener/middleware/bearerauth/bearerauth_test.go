package bearerauth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator(t *testing.T) {
	newRoute := func(t *testing.T, handlerCalled *bool) *httpserver.Route {
		t.Helper()
		route, err := httpserver.NewRouteFromHandlerFunc("test", "/test",
			func(w http.ResponseWriter, r *http.Request) {
				*handlerCalled = true
				w.WriteHeader(http.StatusOK)
				_, err := w.Write([]byte("response"))
				assert.NoError(t, err)
			}, New("secret").Middleware())
		require.NoError(t, err)
		return route
	}

	t.Run("valid token passes through", func(t *testing.T) {
		var handlerCalled bool
		route := newRoute(t, &handlerCalled)

		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		route.ServeHTTP(rec, req)

		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "response", rec.Body.String())
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong token", "Bearer nope"},
		{"missing scheme", "secret"},
		{"wrong scheme", "Basic secret"},
		{"token with trailing junk", "Bearer secret "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var handlerCalled bool
			route := newRoute(t, &handlerCalled)

			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			route.ServeHTTP(rec, req)

			assert.False(t, handlerCalled, "handler must not run")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
