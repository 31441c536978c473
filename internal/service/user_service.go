package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

type UserService struct {
	Deps
}

type UserInput struct {
	Username    *string          `json:"username"`
	Password    *string          `json:"password"`
	FullName    *string          `json:"fullName"`
	Email       *string          `json:"email"`
	Role        *domain.UserRole `json:"role"`
	Location    *domain.Location `json:"location"`
	Active      *bool            `json:"active"`
	Permissions []string         `json:"permissions"`
}

// profileChanged reports whether in touches anything besides permissions.
func (in UserInput) profileChanged() bool {
	return in.Username != nil || in.Password != nil || in.FullName != nil || in.Email != nil ||
		in.Role != nil || in.Location != nil || in.Active != nil
}

func validLocation(l domain.Location) bool {
	return l == domain.LocationColombia || l == domain.LocationUSA
}

func validatePermissions(perms []string) error {
	for _, p := range perms {
		if !authz.Known(p) {
			return invalid("permissions", "unknown permission %q", p)
		}
	}
	return nil
}

func (s UserService) uniqueUsername(ctx context.Context, id, username string) error {
	dup, err := s.Repos.Users.GetByUsername(ctx, username)
	if err == nil && dup.ID != id {
		return invalid("username", "%q is already taken", username)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s UserService) List(ctx context.Context, actor *domain.User, query string, opts repository.ListOptions) ([]*domain.User, error) {
	if err := authorizeUserAdmin(actor, authz.UsersRead); err != nil {
		return nil, err
	}
	return s.Repos.Users.Search(ctx, query, opts)
}

func (s UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := authorizeUserAdmin(actor, authz.UsersRead); err != nil {
		return nil, err
	}
	return s.Repos.Users.Get(ctx, id)
}

// Create adds a user seeded with the role's default permissions unless an
// explicit set is given.
func (s UserService) Create(ctx context.Context, actor *domain.User, in UserInput) (*domain.User, error) {
	if err := authorizeUserAdmin(actor, authz.UsersWrite); err != nil {
		return nil, err
	}
	u := &domain.User{Active: true, Location: domain.LocationColombia}
	setString(&u.Username, in.Username)
	setString(&u.FullName, in.FullName)
	setString(&u.Email, in.Email)
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Location != nil {
		u.Location = *in.Location
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	switch {
	case u.Username == "":
		return nil, invalid("username", "is required")
	case u.FullName == "":
		return nil, invalid("fullName", "is required")
	case !authz.ValidRole(u.Role):
		return nil, invalid("role", "unknown role %q", u.Role)
	case !validLocation(u.Location):
		return nil, invalid("location", "unknown location %q", u.Location)
	case in.Password == nil:
		return nil, invalid("password", "is required")
	}
	if u.Role == domain.RoleSuperuser && !authz.IsSuper(actor) {
		return nil, fmt.Errorf("%w: only a super user can create another", ErrPermissionDenied)
	}

	u.Permissions = authz.DefaultPermissions(u.Role)
	if in.Permissions != nil {
		if err := validatePermissions(in.Permissions); err != nil {
			return nil, err
		}
		u.Permissions = slices.Clone(in.Permissions)
	}
	hash, err := HashPassword(*in.Password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash

	err = s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		if err := s.uniqueUsername(ctx, "", u.Username); err != nil {
			return err
		}
		_, err := s.Repos.Users.Create(ctx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log().Info("user created", "username", u.Username, "role", u.Role, "by", actor.Username)
	s.audit(ctx, actor, domain.LogInfo, "User created", fmt.Sprintf("%s (%s)", u.Username, u.Role))
	return u, nil
}

// Update merges in. Profile fields need users.write and the permission set
// needs users.permissions. Changing the role does not reset permissions; use
// ResetPermissions for that.
func (s UserService) Update(ctx context.Context, actor *domain.User, id string, in UserInput) (*domain.User, error) {
	if in.profileChanged() || in.Permissions == nil {
		if err := authorizeUserAdmin(actor, authz.UsersWrite); err != nil {
			return nil, err
		}
	}
	if in.Permissions != nil {
		if err := authorizeUserAdmin(actor, authz.UsersPermissions); err != nil {
			return nil, err
		}
		if err := validatePermissions(in.Permissions); err != nil {
			return nil, err
		}
	}
	var hash string
	if in.Password != nil {
		var err error
		if hash, err = HashPassword(*in.Password); err != nil {
			return nil, err
		}
	}

	var u *domain.User
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.Repos.Users.Update(ctx, id, func(u *domain.User) error {
			if (u.Role == domain.RoleSuperuser || (in.Role != nil && *in.Role == domain.RoleSuperuser)) && !authz.IsSuper(actor) {
				return fmt.Errorf("%w: only a super user can edit a super user", ErrPermissionDenied)
			}
			setString(&u.Username, in.Username)
			setString(&u.FullName, in.FullName)
			setString(&u.Email, in.Email)
			if in.Role != nil {
				if !authz.ValidRole(*in.Role) {
					return invalid("role", "unknown role %q", *in.Role)
				}
				u.Role = *in.Role
			}
			if in.Location != nil {
				if !validLocation(*in.Location) {
					return invalid("location", "unknown location %q", *in.Location)
				}
				u.Location = *in.Location
			}
			if in.Active != nil {
				if !*in.Active && u.ID == actor.ID {
					return invalid("active", "you cannot deactivate your own account")
				}
				u.Active = *in.Active
			}
			if in.Permissions != nil {
				u.Permissions = slices.Clone(in.Permissions)
			}
			if hash != "" {
				u.PasswordHash = hash
			}
			if u.Username == "" {
				return invalid("username", "is required")
			}
			return s.uniqueUsername(ctx, u.ID, u.Username)
		})
		return err
	})
	if err != nil || u == nil {
		return nil, err
	}
	s.audit(ctx, actor, domain.LogInfo, "User updated", u.Username)
	return u, nil
}

// SetPermissions replaces a user's permission set.
func (s UserService) SetPermissions(ctx context.Context, actor *domain.User, id string, perms []string) (*domain.User, error) {
	if perms == nil {
		perms = []string{}
	}
	return s.Update(ctx, actor, id, UserInput{Permissions: perms})
}

// ResetPermissions restores the role's default permission set.
func (s UserService) ResetPermissions(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := authorizeUserAdmin(actor, authz.UsersPermissions); err != nil {
		return nil, err
	}
	u, err := s.Repos.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, actor, id, UserInput{Permissions: authz.DefaultPermissions(u.Role)})
}

func (s UserService) Delete(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorizeUserAdmin(actor, authz.UsersDelete); err != nil {
		return false, err
	}
	if actor.ID == id {
		return false, invalid("id", "you cannot delete your own account")
	}
	target, err := s.Repos.Users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if target.Role == domain.RoleSuperuser && !authz.IsSuper(actor) {
		return false, fmt.Errorf("%w: only a super user can delete a super user", ErrPermissionDenied)
	}
	ok, err := s.Repos.Users.SoftDelete(ctx, id, nil)
	if ok {
		s.audit(ctx, actor, domain.LogWarning, "User deleted", target.Username)
	}
	return ok, err
}

func (s UserService) Restore(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorizeUserAdmin(actor, authz.UsersDelete); err != nil {
		return false, err
	}
	var ok bool
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		u, err := s.Repos.Users.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		dup, err := s.Repos.Users.FindOne(ctx, func(o *domain.User) bool {
			return !o.Deleted() && o.ID != u.ID && strings.EqualFold(o.Username, u.Username)
		})
		if err != nil {
			return err
		}
		if dup != nil {
			return invalid("username", "%q is already taken", u.Username)
		}
		ok, err = s.Repos.Users.Restore(ctx, id, nil)
		return err
	})
	return ok, err
}

// PermissionCatalog lists every grantable permission.
func (s UserService) PermissionCatalog(actor *domain.User) ([]authz.Permission, error) {
	if err := authorizeUserAdmin(actor, authz.UsersRead); err != nil {
		return nil, err
	}
	return authz.All(), nil
}
