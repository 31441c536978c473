package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/service"
)

type ProductHandler struct {
	Service service.ProductService
}

func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Post("/products", h.create)
	r.Get("/products/{id}", h.get)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
	r.Post("/products/{id}/restore", h.restore)
}

func (h ProductHandler) list(w http.ResponseWriter, r *http.Request) {
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

func (h ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	p, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.Service.Create(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}

func (h ProductHandler) restore(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.Restore(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}
