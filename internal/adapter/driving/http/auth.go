package httphandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a private type for request context values.
type contextKey string

const userIDKey contextKey = "userID"

// userID extracts the authenticated user ID from the request context. The
// auth middleware guarantees it is present on every protected route.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// authMiddleware verifies the Bearer token on every request and stores the
// token subject in the request context as the user ID. Tokens are HS256
// session JWTs signed with the shared session secret; anything else is
// rejected with 401 before the handler runs.
func authMiddleware(secret []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsed.Valid {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		subject, err := parsed.Claims.GetSubject()
		if err != nil || subject == "" {
			writeError(w, http.StatusUnauthorized, "token has no subject")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
