package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
	"cosmeticpos-backend/internal/server/authctx"
	"cosmeticpos-backend/internal/service"
)

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Field  string `json:"field,omitempty"`
}

type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	writeRawJSON(w, status, apiResponse{
		Status:  "ok",
		Message: "",
		Data:    payload,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "error",
		Message: message,
		Data:    nil,
		Error: &apiError{
			Code:   status,
			Status: http.StatusText(status),
		},
	})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &verr):
		writeRawJSON(w, http.StatusBadRequest, apiResponse{
			Status:  "error",
			Message: verr.Error(),
			Error: &apiError{
				Code:   http.StatusBadRequest,
				Status: http.StatusText(http.StatusBadRequest),
				Field:  verr.Field,
			},
		})
		return
	case errors.Is(err, service.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvoiceExists),
		errors.Is(err, service.ErrInvoiceRangeExhausted),
		errors.Is(err, service.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInsufficientPayment):
		status = http.StatusUnprocessableEntity
	}
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeError(w, status, message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}

// currentUser returns the acting user or answers 401.
func currentUser(w http.ResponseWriter, r *http.Request) *domain.User {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return user
}

func listOptions(r *http.Request) repository.ListOptions {
	q := r.URL.Query()
	return repository.ListOptions{
		IncludeInactive: q.Get("includeInactive") == "true",
		IncludeDeleted:  q.Get("includeDeleted") == "true",
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// writeDeleted answers a soft delete or restore. A missing id is a no-op
// reported as ok=false.
func writeDeleted(w http.ResponseWriter, ok bool, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": ok})
}
