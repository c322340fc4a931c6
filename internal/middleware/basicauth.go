package middleware

import (
	"crypto/subtle"
	"net/http"
)

// BasicAuth protects a handler with HTTP basic authentication. Credentials
// are compared in constant time. When the configured username is empty the
// endpoint is closed entirely rather than left open.
func BasicAuth(username, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if username == "" || !ok || !constantTimeEquals(user, username) || !constantTimeEquals(pass, password) {
				w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Unauthorized"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func constantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
