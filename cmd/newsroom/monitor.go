package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/deusflow/vivimundo/internal/logger"
	"github.com/deusflow/vivimundo/internal/metrics"
)

// budgetFunc reports generation usage for the metrics payload.
type budgetFunc func() map[string]interface{}

func newMonitoringServer(addr string, budget budgetFunc) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           monitoringRouter(metrics.Global, budget),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func monitoringRouter(m *metrics.Metrics, budget budgetFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", healthHandler(m))
	r.Get("/metrics", metricsHandler(m, budget))
	return r
}

func healthHandler(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := m.GetStats()

		status := "ok"
		code := http.StatusOK
		if !m.Healthy() {
			status = "error"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status":     status,
			"last_run":   stats["last_run_time"],
			"last_error": stats["last_error"],
		})
	}
}

func metricsHandler(m *metrics.Metrics, budget budgetFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := m.GetStats()
		if budget != nil {
			stats["generation_budget"] = budget()
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}
