package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/service"
)

type DashboardHandler struct {
	Service service.DashboardService
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.summary)
	r.Get("/dashboard/top-products", h.topProducts)
	r.Get("/dashboard/sales", h.series)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	s, err := h.Service.Summary(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h DashboardHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	items, err := h.Service.TopProducts(r.Context(), actor, queryInt(r, "days", 30), queryInt(r, "limit", 5))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h DashboardHandler) series(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	points, err := h.Service.SalesSeries(r.Context(), actor, queryInt(r, "days", 7))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}
