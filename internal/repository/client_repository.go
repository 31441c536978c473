package repository

import (
	"context"
	"strings"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
)

type ClientRepository struct {
	Collection[domain.Client, *domain.Client]
}

func NewClientRepository(store ports.RecordStore) ClientRepository {
	return ClientRepository{Collection[domain.Client, *domain.Client]{
		Store: store,
		Name:  "clients",
		SearchFields: func(c *domain.Client) []string {
			return []string{c.FirstName, c.LastName, c.CompanyName, c.DocumentNumber, c.Email}
		},
	}}
}

// GetByDocument ignores tombstoned clients.
func (r ClientRepository) GetByDocument(ctx context.Context, number string) (*domain.Client, error) {
	c, err := r.FindOne(ctx, func(c *domain.Client) bool {
		return !c.Deleted() && strings.EqualFold(c.DocumentNumber, strings.TrimSpace(number))
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}
