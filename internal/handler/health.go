package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/sendesk/sendesk/internal/service"
)

type healthResponse struct {
	*service.HealthStatus
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth()

	if health.Status == service.StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, healthResponse{
		HealthStatus: health,
		Timestamp:    time.Now(),
	})
}
