package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/service"
)

type UserHandler struct {
	Service service.UserService
}

func (h UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.list)
	r.Post("/users", h.create)
	r.Get("/users/{id}", h.get)
	r.Put("/users/{id}", h.update)
	r.Delete("/users/{id}", h.delete)
	r.Post("/users/{id}/restore", h.restore)
	r.Put("/users/{id}/permissions", h.setPermissions)
	r.Post("/users/{id}/permissions/reset", h.resetPermissions)
	r.Get("/permissions", h.catalog)
}

func (h UserHandler) list(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	items, err := h.Service.List(r.Context(), actor, r.URL.Query().Get("q"), listOptions(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUsers(items))
}

func (h UserHandler) get(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	u, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(u))
}

func (h UserHandler) create(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.UserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.Service.Create(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, publicUser(u))
}

func (h UserHandler) update(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var in service.UserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(u))
}

func (h UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}

func (h UserHandler) restore(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	ok, err := h.Service.Restore(r.Context(), actor, chi.URLParam(r, "id"))
	writeDeleted(w, ok, err)
}

func (h UserHandler) setPermissions(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	var req struct {
		Permissions []string `json:"permissions"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.Service.SetPermissions(r.Context(), actor, chi.URLParam(r, "id"), req.Permissions)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(u))
}

func (h UserHandler) resetPermissions(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	u, err := h.Service.ResetPermissions(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(u))
}

func (h UserHandler) catalog(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	perms, err := h.Service.PermissionCatalog(actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]map[string]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, map[string]string{
			"key":         p.Key(),
			"module":      p.Module,
			"action":      p.Action,
			"label":       p.Label,
			"description": p.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
