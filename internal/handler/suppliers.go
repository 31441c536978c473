package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/service"
)

type SupplierHandler struct {
	Service service.SupplierService
}

func (h SupplierHandler) RegisterRoutes(r chi.Router) {
	r.Get("/suppliers", h.list)
	r.Post("/suppliers", h.create)
	r.Get("/suppliers/{id}", h.get)
	r.Put("/suppliers/{id}", h.update)
	r.Delete("/suppliers/{id}", h.delete)
	r.Post("/suppliers/{id}/restore", h.restore)
	r.Get("/suppliers/{id}/evaluations", h.evaluations)
	r.Post("/suppliers/{id}/evaluations", h.evaluate)
}

func (h SupplierHandler) list(w http.ResponseWriter, r *http.Request) {
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

func (h SupplierHandler) get(w http.ResponseWriter, r *http.Request) {
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

func (h SupplierHandler) create(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.SupplierInput
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

func (h SupplierHandler) update(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.SupplierInput
	if !decodeJSON(w, r, &in) {
		return
	}
	s, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h SupplierHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}

func (h SupplierHandler) restore(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.Restore(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}

func (h SupplierHandler) evaluations(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	items, err := h.Service.Evaluations(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h SupplierHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.EvaluationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ev, err := h.Service.Evaluate(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}
