package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"resala-backend/internal/flash"
	"resala-backend/internal/logging"
	"resala-backend/internal/models"
	"resala-backend/internal/services"
)

type FamilyHandler struct {
	renderer *Renderer
	families *services.FamilyService
}

func NewFamilyHandler(renderer *Renderer, families *services.FamilyService) *FamilyHandler {
	return &FamilyHandler{renderer: renderer, families: families}
}

type addFamilyPage struct {
	Page
	Name       string
	NationalID string
	Mobile     string
}

// AddFamily shows the registration form (GET) or appends a new family (POST)
func (h *FamilyHandler) AddFamily(w http.ResponseWriter, r *http.Request) {
	data := &addFamilyPage{Page: Page{Title: "إضافة أسرة"}}
	if r.Method != http.MethodPost {
		h.renderer.Render(w, r, http.StatusOK, pageAddFamily, data)
		return
	}

	data.Name = r.FormValue("Name")
	data.NationalID = r.FormValue("NationalID")
	data.Mobile = r.FormValue("Mobile")

	family, err := h.families.AddFamily(r.Context(), &models.CreateFamilyRequest{
		Name:         data.Name,
		NationalID:   data.NationalID,
		MobileNumber: data.Mobile,
	})
	if err != nil {
		if errors.Is(err, services.ErrNameRequired) {
			flash.Add(w, r, flash.Danger, msgNameRequired)
			h.renderer.Render(w, r, http.StatusUnprocessableEntity, pageAddFamily, data)
			return
		}
		logger := logging.NewComponentLogger("families")
		logger.Error().Err(err).Msg("Failed to add family")
		flash.Add(w, r, flash.Danger, msgFamilyFailed)
		h.renderer.Render(w, r, http.StatusInternalServerError, pageAddFamily, data)
		return
	}

	flash.Add(w, r, flash.Success, fmt.Sprintf(msgFamilyAdded, family.FamilyNumber))
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}
