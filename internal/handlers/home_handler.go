package handlers

import (
	"net/http"
	"sort"
	"strings"

	"resala-backend/internal/flash"
	"resala-backend/internal/logging"
	"resala-backend/internal/models"
	"resala-backend/internal/services"
)

type HomeHandler struct {
	renderer *Renderer
	families *services.FamilyService
	reports  *services.ReportService
}

func NewHomeHandler(renderer *Renderer, families *services.FamilyService, reports *services.ReportService) *HomeHandler {
	return &HomeHandler{renderer: renderer, families: families, reports: reports}
}

// spendingRow is one line of the per-user spending table
type spendingRow struct {
	Username string
	Amount   float64
}

type homePage struct {
	Page
	Products      []models.Product
	FamilyCount   int
	SearchType    string
	Keyword       string
	Searched      bool
	SearchResults []models.Family
	Spending      []spendingRow
	TotalSpent    float64
	OwnSpending   float64
}

// Home shows the search form, the price list and spending. A POST runs a search.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.NewComponentLogger("home")
	user := currentUser(r)

	data := &homePage{Page: Page{Title: "الرئيسية"}, SearchType: models.SearchNameNumber}
	readFailed := false

	families, err := h.families.ListFamilies(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load families")
		readFailed = true
	}
	data.FamilyCount = len(families)

	if r.Method == http.MethodPost {
		data.SearchType = r.FormValue("search_type")
		data.Keyword = strings.TrimSpace(r.FormValue("search"))
		data.Searched = true
		data.SearchResults = h.families.SearchIn(families, data.SearchType, data.Keyword)
	}

	products, err := h.reports.Products(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load products")
		readFailed = true
	}
	data.Products = products

	report, err := h.reports.Spending(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load spending")
		readFailed = true
	} else {
		data.Spending = spendingRows(report.UserSpending)
		data.TotalSpent = report.TotalSpent
		data.OwnSpending = report.UserSpending[user.Username]
	}

	if readFailed {
		flash.Add(w, r, flash.Danger, msgDataAccess)
	}
	h.renderer.Render(w, r, http.StatusOK, pageHome, data)
}

// spendingRows orders the spending map by username for display
func spendingRows(spending map[string]float64) []spendingRow {
	rows := make([]spendingRow, 0, len(spending))
	for user, amount := range spending {
		rows = append(rows, spendingRow{Username: user, Amount: amount})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Username < rows[j].Username })
	return rows
}
