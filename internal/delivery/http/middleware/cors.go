package middleware

import (
	"net/http"
	"strings"
)

// originSet is the normalized allowlist of CORS origins.
type originSet map[string]bool

func newOriginSet(origins []string) originSet {
	set := make(originSet, len(origins))
	for _, o := range origins {
		if o = strings.TrimSuffix(strings.TrimSpace(o), "/"); o != "" {
			set[o] = true
		}
	}
	return set
}

// CORS allows cross-origin requests from the configured origins. Preflight
// OPTIONS requests are answered directly with 204; requests from origins not
// on the list pass through without CORS headers so the browser rejects them.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := newOriginSet(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowed[origin] {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
