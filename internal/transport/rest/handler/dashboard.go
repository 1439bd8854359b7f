package handler

import (
	"net/http"

	"aroha-api/internal/service"
)

// DashboardHandler handles the admin dashboard endpoint
type DashboardHandler struct {
	analyticsSvc *service.AnalyticsService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(analyticsSvc *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{analyticsSvc: analyticsSvc}
}

// Get handles GET /v1/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsSvc.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "response store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
