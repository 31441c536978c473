package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/service"
)

type InvoiceHandler struct {
	Service service.InvoiceService
}

func (h InvoiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/invoices", h.list)
	r.Post("/invoices", h.create)
	r.Get("/invoices/{id}", h.get)
	r.Post("/invoices/{id}/void", h.void)
	r.Post("/invoices/{id}/pay", h.pay)
	r.Post("/invoices/{id}/reprint", h.reprint)
}

func (h InvoiceHandler) list(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	q := r.URL.Query()
	items, err := h.Service.List(r.Context(), actor, service.InvoiceFilter{
		State:    domain.InvoiceState(q.Get("state")),
		ClientID: q.Get("clientId"),
		Query:    q.Get("q"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h InvoiceHandler) get(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	inv, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h InvoiceHandler) create(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var req struct {
		SaleID   string `json:"saleId"`
		ClientID string `json:"clientId"`
		DueDate  string `json:"dueDate"`
		Notes    string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.InvoiceInput{SaleID: req.SaleID, ClientID: req.ClientID, Notes: req.Notes}
	if req.DueDate != "" {
		day, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid dueDate, expected YYYY-MM-DD")
			return
		}
		// due at the end of the local day
		due := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, h.Service.Zone())
		in.DueAt = &due
	}
	inv, err := h.Service.Create(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h InvoiceHandler) void(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var req reasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.Service.Void(r.Context(), actor, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h InvoiceHandler) pay(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	inv, err := h.Service.MarkPaid(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h InvoiceHandler) reprint(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	inv, err := h.Service.Reprint(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
