package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/service"
)

// CatalogHandler serves the category and brand lookups.
type CatalogHandler struct {
	Service service.CatalogService
}

func (h CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.listCategories)
	r.Post("/categories", h.createCategory)
	r.Put("/categories/{id}", h.updateCategory)
	r.Delete("/categories/{id}", h.deleteCategory)

	r.Get("/brands", h.listBrands)
	r.Post("/brands", h.createBrand)
	r.Put("/brands/{id}", h.updateBrand)
	r.Delete("/brands/{id}", h.deleteBrand)
}

func (h CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	items, err := h.Service.ListCategories(r.Context(), actor, r.URL.Query().Get("q"), listOptions(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.LabelInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Service.CreateCategory(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.LabelInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Service.UpdateCategory(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.DeleteCategory(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}

func (h CatalogHandler) listBrands(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	items, err := h.Service.ListBrands(r.Context(), actor, r.URL.Query().Get("q"), listOptions(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h CatalogHandler) createBrand(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.LabelInput
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.Service.CreateBrand(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h CatalogHandler) updateBrand(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.LabelInput
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.Service.UpdateBrand(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h CatalogHandler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.DeleteBrand(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}
