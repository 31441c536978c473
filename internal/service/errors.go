package service

import (
	"errors"
	"fmt"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

var (
	ErrPermissionDenied      = errors.New("permission denied")
	ErrNotFound              = repository.ErrNotFound
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInsufficientPayment   = errors.New("amount tendered is less than the sale total")
	ErrInvoiceExists         = errors.New("sale already has an invoice")
	ErrInvoiceRangeExhausted = errors.New("authorized invoice range exhausted")
	ErrInvalidState          = errors.New("operation not allowed in current state")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func authorize(actor *domain.User, perm string) error {
	if !authz.HasPermission(actor, perm) {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, perm)
	}
	return nil
}

func authorizeAny(actor *domain.User, perms ...string) error {
	if !authz.HasAny(actor, perms...) {
		return fmt.Errorf("%w: one of %v", ErrPermissionDenied, perms)
	}
	return nil
}

func authorizeUserAdmin(actor *domain.User, perm string) error {
	if !authz.CanManageUsers(actor, perm) {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, perm)
	}
	return nil
}

func authorizeSuper(actor *domain.User) error {
	if !authz.IsSuper(actor) {
		return fmt.Errorf("%w: super user only", ErrPermissionDenied)
	}
	return nil
}
