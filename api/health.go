package api

import (
	"net/http"
	"time"
	"todo-api/config"
	"todo-api/logger"
	"todo-api/todos/service"
)

var startTime = time.Now()

// HealthResponse provides detailed health information
type HealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Uptime       string `json:"uptime"`
	StoreBackend string `json:"store_backend"`
	Version      string `json:"version,omitempty"`
}

// NewHealthHandler returns a health check handler that pings the store
func NewHealthHandler(cfg *config.Config, svc service.Service, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:       "healthy",
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Uptime:       time.Since(startTime).String(),
			StoreBackend: cfg.StoreBackend,
			Version:      cfg.Version,
		}

		status := http.StatusOK
		if err := svc.Healthy(r.Context()); err != nil {
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}

		respondJSON(w, status, response, lg)
	}
}
