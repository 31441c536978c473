package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
	"cosmeticpos-backend/internal/service"
)

type SaleHandler struct {
	Service service.SaleService
}

func (h SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sales", h.list)
	r.Post("/sales", h.create)
	r.Get("/sales/{id}", h.get)
	r.Post("/sales/{id}/void", h.void)
	r.Delete("/sales/{id}", h.delete)
	r.Post("/sales/{id}/restore", h.restore)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h SaleHandler) list(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	f := repository.SaleFilter{
		ClientID: q.Get("clientId"),
		State:    domain.SaleState(q.Get("state")),
	}
	f.From, f.To = rng.Bounds(h.Service.Zone())
	// deleted=include adds the trash to the listing, deleted=only shows just the trash.
	switch q.Get("deleted") {
	case "include":
		f.IncludeDeleted = true
	case "only":
		f.OnlyDeleted = true
	}
	items, err := h.Service.List(r.Context(), actor, f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h SaleHandler) get(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	s, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h SaleHandler) create(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.SaleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	s, err := h.Service.Create(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h SaleHandler) void(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var req reasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s, err := h.Service.Void(r.Context(), actor, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h SaleHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	req := reasonRequest{Reason: r.URL.Query().Get("reason")}
	if req.Reason == "" && r.ContentLength > 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	ok, err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id"), req.Reason)
	writeDeleted(w, ok, err)
}

func (h SaleHandler) restore(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.Restore(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}
