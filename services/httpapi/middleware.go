// Package httpapi is the HTTP surface of the deadline service: the data
// and badge queries the UI polls, the point mutations it issues, the
// scrape delivery endpoint and the SSE change feed.
package httpapi

import (
	"net/http"
	"strings"
)

// AuthMiddleware validates a bearer token when enabled; disabled mode
// passes everything through.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
