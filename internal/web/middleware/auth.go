package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// Authentication requires the X-API-Key header to match apiKey. An empty
// apiKey lets every request through, which suits a bridge on localhost.
func Authentication(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			given := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error":   "unauthorized",
					"message": "missing or invalid API key",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
