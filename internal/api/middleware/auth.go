package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

type contextKey string

// APIKeyHeader is the header clients send the static API key in.
const APIKeyHeader = "X-API-Key"

// APIKey returns middleware that checks the X-API-Key header against the
// configured key. An empty configured key disables the check entirely,
// which is the expected local-dev mode.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid or missing API key"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
