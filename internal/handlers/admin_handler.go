package handlers

import (
	"net/http"

	"resala-backend/internal/flash"
	"resala-backend/internal/logging"
	"resala-backend/internal/models"
	"resala-backend/internal/services"
)

type AdminHandler struct {
	renderer *Renderer
	reports  *services.ReportService
	policy   services.InventoryPolicy
}

func NewAdminHandler(renderer *Renderer, reports *services.ReportService, policy services.InventoryPolicy) *AdminHandler {
	return &AdminHandler{renderer: renderer, reports: reports, policy: policy}
}

type adminPage struct {
	Page
	Spending     []spendingRow
	TotalSpent   float64
	Availability []models.ProductAvailability
	Policy       services.InventoryPolicy
}

// Dashboard shows spending per user and product availability
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := &adminPage{Page: Page{Title: "لوحة التحكم"}, Policy: h.policy}

	report, err := h.reports.AdminReport(r.Context())
	if err != nil {
		logger := logging.NewComponentLogger("admin")
		logger.Error().Err(err).Msg("Failed to build admin report")
		flash.Add(w, r, flash.Danger, msgDataAccess)
	} else {
		data.Spending = spendingRows(report.UserSpending)
		data.TotalSpent = report.TotalSpent
		data.Availability = report.Availability
	}

	h.renderer.Render(w, r, http.StatusOK, pageAdmin, data)
}
