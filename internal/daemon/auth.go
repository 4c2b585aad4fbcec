package daemon

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authMiddleware guards CLI-facing endpoints with a bearer token. An empty
// token disables authentication entirely; the public upload and course
// endpoints are never wrapped.
func authMiddleware(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
