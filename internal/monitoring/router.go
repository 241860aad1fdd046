package monitoring

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter serves /metrics and /health for the lifetime of a replay
func NewRouter(health *HealthChecker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", NewMetricsHandler())
	r.Method(http.MethodGet, "/health", health)
	return r
}
