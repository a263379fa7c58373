package handlers

import (
	"encoding/json"
	"net/http"

	"resala-backend/internal/logging"
	"resala-backend/internal/models"
	"resala-backend/internal/services"
)

// APIHandler serves the JSON endpoints under /api
type APIHandler struct {
	families *services.FamilyService
	reports  *services.ReportService
}

func NewAPIHandler(families *services.FamilyService, reports *services.ReportService) *APIHandler {
	return &APIHandler{families: families, reports: reports}
}

type familiesResponse struct {
	Families []models.Family `json:"families"`
	Count    int             `json:"count"`
}

// SearchFamilies handles GET /api/families?type=name_number|mobile_id&q=keyword.
// Without q every family is listed.
func (h *APIHandler) SearchFamilies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	searchType := query.Get("type")
	if searchType == "" {
		searchType = models.SearchNameNumber
	}

	families, err := h.families.ListFamilies(r.Context())
	if err != nil {
		logger := logging.NewComponentLogger("api")
		logger.Error().Err(err).Msg("Failed to list families")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to read families"})
		return
	}

	if q := query.Get("q"); q != "" {
		families = h.families.SearchIn(families, searchType, q)
	}
	if families == nil {
		families = []models.Family{}
	}
	writeJSON(w, http.StatusOK, familiesResponse{Families: families, Count: len(families)})
}

// Reports handles GET /api/reports
func (h *APIHandler) Reports(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.AdminReport(r.Context())
	if err != nil {
		logger := logging.NewComponentLogger("api")
		logger.Error().Err(err).Msg("Failed to build report")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to build report"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
