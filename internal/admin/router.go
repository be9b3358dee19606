// Package admin serves the relay's operational HTTP endpoints.
package admin

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sessions is the read-only view of the session registry the endpoints need.
type Sessions interface {
	Len() int
	Usernames() []string
}

// NewRouter returns a router serving /metrics, /health and /sessions.
func NewRouter(sessions Sessions) http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/health", healthHandler(sessions))
	r.Get("/sessions", sessionsHandler(sessions))
	return r
}

// healthHandler reports goroutine and session counts.
func healthHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]int{
			"goroutines": runtime.NumGoroutine(),
			"sessions":   sessions.Len(),
		})
	}
}

func sessionsHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string][]string{
			"usernames": sessions.Usernames(),
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
