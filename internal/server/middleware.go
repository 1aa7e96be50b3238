package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// userHeader carries the caller's identity. The tracker's web frontend sets
// it from the signed-in session; the CLI sets it from configuration.
const userHeader = "X-Pulse-User"

// requestUser returns the identity of the caller, or "" when unset.
func requestUser(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userHeader))
}

// trackPresence marks the caller active on every request that carries an
// identity. Stream opens and explicit heartbeats re-touch with their own
// source label afterwards.
func (s *Server) trackPresence(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := requestUser(r); user != "" {
			s.presence.Touch(user, "request")
		}
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware wraps an http.Handler and checks the Authorization header for
// a valid Bearer token. When token is empty, auth is disabled and all requests
// pass through. GET /v1/health is always exempt.
func AuthMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Exempt health check.
		if r.Method == http.MethodGet && r.URL.Path == "/v1/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "invalid authorization scheme")
			return
		}

		provided := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
