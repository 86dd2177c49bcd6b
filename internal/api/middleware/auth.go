package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/richtext-api/internal/api/shared"
)

// Errors describing why a request was rejected. They are logged, never returned
// to the caller, who always sees the same Unauthorized message.
var (
	ErrMissingAuthorization = errors.New("authorization header required")
	ErrInvalidAuthFormat    = errors.New("invalid authorization format")
	ErrTokenMismatch        = errors.New("token mismatch")
)

const (
	bearerScheme    = "bearer"
	unauthorized    = "Unauthorized"
	wwwAuthenticate = `Bearer realm="richtext-api"`
)

// AuthMiddleware checks a static bearer token against the configured secret.
type AuthMiddleware struct {
	token []byte
}

// NewAuthMiddleware creates an AuthMiddleware expecting token. An empty token
// rejects every request.
func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{
		token: []byte(token),
	}
}

// Authenticate passes the request through when the Authorization header
// carries the expected bearer token and answers 401 otherwise.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.check(r.Header.Get("Authorization")); err != nil {
			w.Header().Set("WWW-Authenticate", wwwAuthenticate)
			shared.RespondWithErrorAndLog(
				w,
				r,
				http.StatusUnauthorized,
				unauthorized,
				err,
				shared.WithElevatedLogLevel(),
			)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) check(header string) error {
	if header == "" {
		return ErrMissingAuthorization
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, bearerScheme) || token == "" {
		return ErrInvalidAuthFormat
	}

	if len(m.token) == 0 || subtle.ConstantTimeCompare([]byte(token), m.token) != 1 {
		return ErrTokenMismatch
	}

	return nil
}
