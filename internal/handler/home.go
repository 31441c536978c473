package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HomeHandler struct {
	Version string
}

func (h HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.welcome)
}

func (h HomeHandler) welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Cosmetic POS back office",
		"version": h.Version,
		"docs":    "/docs",
	})
}
