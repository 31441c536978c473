package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/service"
)

type AuthHandler struct {
	Service service.AuthService
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
}

func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.me)
	r.Post("/auth/change-password", h.changePassword)
}

// publicUser strips the password hash before a user leaves the API.
func publicUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	return &c
}

func publicUsers(users []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, publicUser(u))
	}
	return out
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.Login(r.Context(), service.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": res.AccessToken,
		"tokenType":   "Bearer",
		"expiresAt":   res.ExpiresAt,
		"user":        publicUser(&res.User),
	})
}

func (h AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	writeJSON(w, http.StatusOK, publicUser(user))
}

func (h AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Service.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
