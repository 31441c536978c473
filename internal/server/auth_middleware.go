package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/server/authctx"
	"cosmeticpos-backend/internal/service"
)

// Authenticator resolves a bearer token to the current user record.
type Authenticator interface {
	ParseToken(token string) (string, error)
	CurrentUser(ctx context.Context, id string) (*domain.User, error)
}

// AuthMiddleware validates the JWT and reloads the user on every request so
// permission edits apply without a new login.
func AuthMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			sub, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			user, err := auth.CurrentUser(r.Context(), sub)
			if err != nil {
				if errors.Is(err, service.ErrInvalidToken) {
					writeAuthError(w, http.StatusUnauthorized, "user is inactive or no longer exists")
					return
				}
				log.Error("load current user", "err", err)
				writeAuthError(w, http.StatusInternalServerError, "could not load user")
				return
			}
			ctx := authctx.WithCurrentUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission lets the request through when the user holds any of
// perms. Services check again with the exact permission of each operation.
func RequirePermission(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := authctx.FromContext(r.Context())
			if u == nil {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if len(perms) > 0 && !authz.HasAny(u, perms...) && !authz.IsSuper(u) {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"status":"error","message":"` + message + `","data":null,"error":{"code":` +
		strconv.Itoa(status) + `,"status":"` + http.StatusText(status) + `"}}`))
}
