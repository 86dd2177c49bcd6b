package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/richtext-api/internal/api/shared"
	"github.com/phrazzld/richtext-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	const token = "correct-token"

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{name: "valid token", authHeader: "Bearer correct-token", expectedStatus: http.StatusOK},
		{name: "scheme is case-insensitive", authHeader: "bearer correct-token", expectedStatus: http.StatusOK},
		{name: "surrounding whitespace", authHeader: "  Bearer   correct-token ", expectedStatus: http.StatusOK},
		{name: "missing auth header", authHeader: "", expectedStatus: http.StatusUnauthorized},
		{name: "wrong token", authHeader: "Bearer wrong", expectedStatus: http.StatusUnauthorized},
		{name: "token prefix only", authHeader: "Bearer correct", expectedStatus: http.StatusUnauthorized},
		{name: "missing scheme", authHeader: "correct-token", expectedStatus: http.StatusUnauthorized},
		{name: "basic scheme", authHeader: "Basic correct-token", expectedStatus: http.StatusUnauthorized},
		{name: "empty bearer", authHeader: "Bearer ", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			handler := NewAuthMiddleware(token).Authenticate(next)

			req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(`{"markdown":"# Hi"}`))
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.True(t, called, "next handler should be invoked")
				return
			}

			assert.False(t, called, "next handler must not be invoked")
			assert.Equal(t, `Bearer realm="richtext-api"`, rr.Header().Get("WWW-Authenticate"))

			var response shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
			assert.False(t, response.Success)
			assert.Equal(t, "Unauthorized", response.Error)
		})
	}
}

func TestAuthMiddleware_EmptyConfiguredToken(t *testing.T) {
	handler := NewAuthMiddleware("").Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be invoked")
	}))

	req := httptest.NewRequest(http.MethodPost, "/convert", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddleware_LogsWithoutToken(t *testing.T) {
	_, logBuf := logger.SetupTestLogger(t)

	handler := NewAuthMiddleware("correct-token").Authenticate(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodPost, "/convert", nil)
	req.Header.Set("Authorization", "Bearer leaked-guess-123")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	logger.AssertLogContains(t, logBuf, "token mismatch")
	logger.AssertLogContains(t, logBuf, `"level":"WARN"`)
	logger.AssertLogNotContains(t, logBuf, "leaked-guess-123")
	logger.AssertLogNotContains(t, logBuf, "correct-token")
}
