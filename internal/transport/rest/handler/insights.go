package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"aroha-api/internal/service"
)

// generationTimeout bounds one detached insight generation run.
const generationTimeout = 2 * time.Minute

// InsightsHandler handles AI insight endpoints
type InsightsHandler struct {
	insightSvc *service.InsightService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightSvc *service.InsightService) *InsightsHandler {
	return &InsightsHandler{insightSvc: insightSvc}
}

// Get handles GET /v1/insights
func (h *InsightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.insightSvc.Latest(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "insight store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// Generate handles POST /v1/insights. Generation runs detached from
// the request; the caller polls GET /v1/insights for the outcome. The
// request context would die with the response, so the background run
// gets its own bounded context.
func (h *InsightsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()

		doc, err := h.insightSvc.Generate(ctx)
		if err != nil {
			if errors.Is(err, service.ErrNoResponses) {
				log.Printf("insight generation skipped: %v", err)
			} else {
				log.Printf("insight generation failed: %v", err)
			}
			return
		}
		log.Printf("insight generation finished: status=%s", doc.Status)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "generating"})
}
