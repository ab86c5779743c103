package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks connectivity to a backing dependency.
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler creates a new health handler. cache may be nil when the
// process runs without Redis.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Uptime string            `json:"uptime,omitempty"`
}

var startTime = time.Now()

// GetHealth handles GET /health
// Basic health check - returns 200 OK if service is running
func GetHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(startTime).String(),
		Checks: map[string]string{},
	})
}

// GetLiveness handles GET /health/live
func GetLiveness(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// GetReadiness handles GET /health/ready
// Checks the backing stores before reporting ready.
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "database not ready")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// GetHealthDetailed handles GET /health/detailed
// Includes per-dependency connectivity checks.
func (h *HealthHandler) GetHealthDetailed(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "ok"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "degraded"
	} else {
		checks["database"] = "healthy"
	}

	if h.cache != nil {
		if err := h.cache.Health(ctx); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			status = "degraded"
		} else {
			checks["redis"] = "healthy"
		}
	}

	httpStatus := http.StatusOK
	if status == "degraded" {
		httpStatus = http.StatusServiceUnavailable
	}

	respondWithJSON(w, httpStatus, HealthResponse{
		Status: status,
		Uptime: time.Since(startTime).String(),
		Checks: checks,
	})
}
