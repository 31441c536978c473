package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/service"
)

type ActivityLogHandler struct {
	Service service.ActivityLogService
}

func (h ActivityLogHandler) RegisterRoutes(r chi.Router) {
	r.Post("/logs", h.create)
	r.Get("/logs", h.list)
}

func (h ActivityLogHandler) create(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var req struct {
		Title     string `json:"title"`
		Message   string `json:"message"`
		Type      string `json:"type"`
		Timestamp string `json:"timestamp"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.ActivityLogInput{
		Title:   req.Title,
		Message: req.Message,
		Type:    domain.ActivityLogType(req.Type),
	}
	if req.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			in.LoggedAt = &parsed
		}
	}
	entry, err := h.Service.Record(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h ActivityLogHandler) list(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	items, err := h.Service.List(r.Context(), actor, queryInt(r, "limit", 200))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
