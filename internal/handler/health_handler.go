package handler

import (
	"net/http"

	"textassign/internal/service"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	checker *service.HealthChecker
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(checker *service.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckHealth(r.Context())

	code := http.StatusOK
	if status.Status == service.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	WriteJSON(w, code, status)
}
