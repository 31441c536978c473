package authz

import (
	"slices"

	"cosmeticpos-backend/internal/domain"
)

// HasPermission is true iff the user is active, not deleted and holds perm.
func HasPermission(u *domain.User, perm string) bool {
	if u == nil || !u.Active || u.Deleted() {
		return false
	}
	return slices.Contains(u.Permissions, perm)
}

// HasAny is true when the user holds at least one of perms.
func HasAny(u *domain.User, perms ...string) bool {
	for _, p := range perms {
		if HasPermission(u, p) {
			return true
		}
	}
	return false
}

// HasAll is true when the user holds every one of perms.
func HasAll(u *domain.User, perms ...string) bool {
	for _, p := range perms {
		if !HasPermission(u, p) {
			return false
		}
	}
	return true
}

// IsSuper identifies the role allowed to manage users and the invoicing sequence.
func IsSuper(u *domain.User) bool {
	if u == nil || !u.Active || u.Deleted() {
		return false
	}
	return u.Role == domain.RoleSuperuser
}

// CanManageUsers lets super users through and otherwise falls back to perm.
func CanManageUsers(u *domain.User, perm string) bool {
	return IsSuper(u) || HasPermission(u, perm)
}
