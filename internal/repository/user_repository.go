package repository

import (
	"context"
	"strings"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
)

type UserRepository struct {
	Collection[domain.User, *domain.User]
}

func NewUserRepository(store ports.RecordStore) UserRepository {
	return UserRepository{Collection[domain.User, *domain.User]{
		Store: store,
		Name:  "users",
		SearchFields: func(u *domain.User) []string {
			return []string{u.Username, u.FullName, u.Email}
		},
	}}
}

// GetByUsername matches case-insensitively over every user, tombstoned
// ones included, and returns ErrNotFound when nothing matches.
func (r UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := r.FindOne(ctx, func(u *domain.User) bool {
		return strings.EqualFold(u.Username, strings.TrimSpace(username))
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}
