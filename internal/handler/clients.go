package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/service"
)

type ClientHandler struct {
	Service service.ClientService
}

func (h ClientHandler) RegisterRoutes(r chi.Router) {
	r.Get("/clients", h.list)
	r.Post("/clients", h.create)
	r.Get("/clients/export", h.export)
	r.Get("/clients/{id}", h.get)
	r.Put("/clients/{id}", h.update)
	r.Delete("/clients/{id}", h.delete)
	r.Post("/clients/{id}/restore", h.restore)
	r.Get("/clients/{id}/history", h.history)
}

func (h ClientHandler) list(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	items, err := h.Service.List(r.Context(), actor, r.URL.Query().Get("q"), listOptions(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h ClientHandler) get(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	c, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h ClientHandler) create(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.ClientInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Service.Create(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h ClientHandler) update(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.ClientInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h ClientHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}

func (h ClientHandler) restore(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.Restore(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}

func (h ClientHandler) history(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	sales, err := h.Service.History(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

func (h ClientHandler) export(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	format, ok := exportFormat(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
		return
	}
	items, err := h.Service.Export(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeExport(w, format, "clients", "", clientTable(items))
}

func clientTable(items []*domain.Client) table {
	t := table{
		Sheet:  "Clients",
		Header: []string{"Document Type", "Document", "Name", "Email", "Phone", "City", "Tier", "Purchases", "Total Spent", "Data Consent"},
		Widths: []float64{14, 16, 28, 28, 16, 16, 12, 12, 16, 14},
	}
	for _, c := range items {
		t.Rows = append(t.Rows, []any{
			string(c.DocumentType),
			c.DocumentNumber,
			c.DisplayName(),
			c.Email,
			c.Phone,
			c.City,
			string(c.Tier),
			c.PurchaseCount,
			c.TotalSpent,
			c.DataConsent,
		})
	}
	return t
}
