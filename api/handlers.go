package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// hello returns a fixed greeting. It exists so a fresh deployment has one
// route to poke before any real features are built on the skeleton.
func (a *API) hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello, World"))
}

// healthCheck returns the health status of the service, including database
// reachability.
func (a *API) healthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	database := "ok"
	code := http.StatusOK

	if err := a.db.HealthCheck(); err != nil {
		status = "degraded"
		database = "unreachable"
		code = http.StatusServiceUnavailable
		a.logger.Errorw("Health check failed", "error", err)
	}

	response := map[string]string{
		"status":   status,
		"database": database,
		"time":     time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}
