package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"aroha-api/internal/model"
	"aroha-api/internal/service"
)

const responsesPerPage = 50

// ResponsesHandler handles survey response endpoints
type ResponsesHandler struct {
	responseSvc *service.ResponseService
	exportSvc   *service.ExportService
}

// NewResponsesHandler creates a new responses handler
func NewResponsesHandler(responseSvc *service.ResponseService, exportSvc *service.ExportService) *ResponsesHandler {
	return &ResponsesHandler{
		responseSvc: responseSvc,
		exportSvc:   exportSvc,
	}
}

// List handles GET /v1/responses
func (h *ResponsesHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.responseSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "response store unavailable")
		return
	}

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filtered := h.responseSvc.Filter(records, criteria)

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	total := len(filtered)
	pages := (total + responsesPerPage - 1) / responsesPerPage
	start := (page - 1) * responsesPerPage
	if start > total {
		start = total
	}
	end := start + responsesPerPage
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"responses": filtered[start:end],
		"total":     total,
		"page":      page,
		"pages":     pages,
	})
}

// Get handles GET /v1/responses/{id}
func (h *ResponsesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	response, err := h.responseSvc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "response store unavailable")
		return
	}
	if response == nil {
		writeError(w, http.StatusNotFound, "response not found")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// Export handles GET /v1/responses/export. The same filters as List
// apply, so an admin can export a filtered subset.
func (h *ResponsesHandler) Export(w http.ResponseWriter, r *http.Request) {
	records, err := h.responseSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "response store unavailable")
		return
	}

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filtered := h.responseSvc.Filter(records, criteria)

	csvText, err := h.exportSvc.ExportCSV(filtered, service.DefaultExportColumns)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("survey_responses_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csvText))
}

func criteriaFromQuery(r *http.Request) (service.FilterCriteria, error) {
	q := r.URL.Query()
	criteria := service.FilterCriteria{
		IncludeSets: []service.IncludeSet{
			{QuestionID: model.QAgeGroup, AnyOf: q["age"]},
			{QuestionID: model.QLifeStage, AnyOf: q["lifeStage"]},
		},
	}

	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return criteria, fmt.Errorf("invalid from date %q", from)
		}
		criteria.From = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return criteria, fmt.Errorf("invalid to date %q", to)
		}
		criteria.To = &t
	}
	return criteria, nil
}
