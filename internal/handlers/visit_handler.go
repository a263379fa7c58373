package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"resala-backend/internal/flash"
	"resala-backend/internal/logging"
	"resala-backend/internal/models"
	"resala-backend/internal/services"
)

type VisitHandler struct {
	renderer *Renderer
	visits   *services.VisitService
	reports  *services.ReportService
}

func NewVisitHandler(renderer *Renderer, visits *services.VisitService, reports *services.ReportService) *VisitHandler {
	return &VisitHandler{renderer: renderer, visits: visits, reports: reports}
}

// visitItem is one quantity input on the visit form
type visitItem struct {
	Name   string
	Price  float64
	Priced bool
	Value  string
}

type visitPage struct {
	Page
	Family *models.Family
	Items  []visitItem
}

// Visit shows the quantity form for a family (GET) or records a visit (POST)
func (h *VisitHandler) Visit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.NewComponentLogger("visits")

	number, err := strconv.Atoi(mux.Vars(r)["family_number"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	family, err := h.visits.GetFamily(ctx, number)
	if err != nil {
		if errors.Is(err, services.ErrFamilyNotFound) {
			flash.Add(w, r, flash.Danger, fmt.Sprintf(msgFamilyNotFound, number))
		} else {
			logger.Error().Err(err).Int(logging.FAMILY, number).Msg("Failed to load family")
			flash.Add(w, r, flash.Danger, msgDataAccess)
		}
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	if r.Method != http.MethodPost {
		h.renderForm(w, r, http.StatusOK, family, nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := make(map[string]string, len(models.ProductColumns))
	for _, col := range models.ProductColumns {
		if _, ok := r.PostForm[col]; ok {
			form[col] = r.PostForm.Get(col)
		}
	}

	receipt, err := h.visits.RecordVisit(ctx, number, currentUser(r).Username, form)
	var qtyErr *services.QuantityError
	switch {
	case err == nil:
		flash.Add(w, r, flash.Success, fmt.Sprintf(msgVisitRecorded, formatMoney(receipt.TotalPrice)))
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	case errors.Is(err, services.ErrInventoryUpdate) && receipt != nil:
		logger.Error().Err(err).Int(logging.FAMILY, number).Msg("Visit recorded but inventory update failed")
		flash.Add(w, r, flash.Success, fmt.Sprintf(msgVisitRecorded, formatMoney(receipt.TotalPrice)))
		flash.Add(w, r, flash.Warning, msgInventoryWarning)
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	case errors.Is(err, services.ErrFamilyNotFound):
		flash.Add(w, r, flash.Danger, fmt.Sprintf(msgFamilyNotFound, number))
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	case errors.As(err, &qtyErr):
		flash.Add(w, r, flash.Danger, fmt.Sprintf(msgQuantityInvalid, qtyErr.Product))
		h.renderForm(w, r, http.StatusUnprocessableEntity, family, form)
	default:
		logger.Error().Err(err).Int(logging.FAMILY, number).Msg("Failed to record visit")
		flash.Add(w, r, flash.Danger, msgVisitFailed)
		h.renderForm(w, r, http.StatusInternalServerError, family, form)
	}
}

// renderForm shows the visit form, refilled with the submitted values when present
func (h *VisitHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, family *models.Family, form map[string]string) {
	prices := make(map[string]float64)
	products, err := h.reports.Products(r.Context())
	if err != nil {
		logger := logging.NewComponentLogger("visits")
		logger.Error().Err(err).Msg("Failed to load products")
		flash.Add(w, r, flash.Danger, msgDataAccess)
	}
	for _, p := range products {
		prices[p.Name] = p.Price
	}

	items := make([]visitItem, 0, len(models.ProductColumns))
	for _, col := range models.ProductColumns {
		price, priced := prices[col]
		value := "0"
		if v, ok := form[col]; ok {
			value = v
		}
		items = append(items, visitItem{Name: col, Price: price, Priced: priced, Value: value})
	}

	h.renderer.Render(w, r, status, pageVisit, &visitPage{
		Page:   Page{Title: fmt.Sprintf("زيارة الأسرة %d", family.FamilyNumber)},
		Family: family,
		Items:  items,
	})
}
