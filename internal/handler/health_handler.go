package handler

import (
	"context"
	"net/http"
	"time"

	"tourzen-api/internal/container"
)

// Dependency states reported by the health check
const (
	statusUp       = "up"
	statusDown     = "down"
	statusDisabled = "disabled"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
	timeout   time.Duration
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
		timeout:   2 * time.Second,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health. The database is required; Redis is optional and
// only degrades the response.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Service:   "tourzen-api",
		Checks:    map[string]string{"database": statusUp, "redis": statusDisabled},
	}
	code := http.StatusOK

	if h.container.DB == nil || h.container.DB.Pool == nil {
		response.Checks["database"] = statusDown
	} else if err := h.container.DB.Health(ctx); err != nil {
		logger.WithError(err).Warn("Database health check failed")
		response.Checks["database"] = statusDown
	}

	if h.container.HasRedis() {
		response.Checks["redis"] = statusUp
		if err := h.container.Cache.HealthCheck(ctx); err != nil {
			logger.WithError(err).Warn("Redis health check failed")
			response.Checks["redis"] = statusDown
			response.Status = "degraded"
		}
	}

	if response.Checks["database"] == statusDown {
		response.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, logger, code, response)
}
