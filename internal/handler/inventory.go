package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
	"cosmeticpos-backend/internal/service"
)

type InventoryHandler struct {
	Service service.InventoryService
}

func (h InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/inventory/movements", h.movements)
	r.Post("/inventory/movements", h.adjust)
	r.Get("/inventory/kardex/{productId}", h.kardex)
	r.Get("/inventory/low-stock", h.lowStock)
	r.Get("/inventory/valuation", h.valuation)
}

func (h InventoryHandler) movements(w http.ResponseWriter, r *http.Request) {
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
	f := repository.MovementFilter{
		ProductID: q.Get("productId"),
		Kind:      domain.MovementKind(q.Get("kind")),
		Reference: q.Get("reference"),
	}
	f.From, f.To = rng.Bounds(h.Service.Zone())
	items, err := h.Service.Movements(r.Context(), actor, f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h InventoryHandler) adjust(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.MovementInput
	if !decodeJSON(w, r, &in) {
		return
	}
	m, err := h.Service.Adjust(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h InventoryHandler) kardex(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	items, err := h.Service.Kardex(r.Context(), actor, chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h InventoryHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	items, err := h.Service.LowStock(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h InventoryHandler) valuation(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	v, err := h.Service.Valuation(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
