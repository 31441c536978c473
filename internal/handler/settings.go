package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/service"
)

type SettingsHandler struct {
	Service service.SettingsService
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings/company", h.updateCompany)
	r.Put("/settings/taxes", h.updateTaxes)
	r.Put("/settings/invoicing", h.updateInvoicing)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	s, err := h.Service.Get(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h SettingsHandler) updateCompany(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in domain.CompanySettings
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Service.UpdateCompany(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h SettingsHandler) updateTaxes(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in domain.TaxSettings
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Service.UpdateTaxes(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h SettingsHandler) updateInvoicing(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in domain.InvoicingSettings
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Service.UpdateInvoicing(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
