package repository

import (
	"context"
	"time"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
)

type SaleRepository struct {
	Collection[domain.Sale, *domain.Sale]
}

func NewSaleRepository(store ports.RecordStore) SaleRepository {
	return SaleRepository{Collection[domain.Sale, *domain.Sale]{
		Store: store,
		Name:  "sales",
		SearchFields: func(s *domain.Sale) []string {
			return []string{s.Number, s.Notes}
		},
	}}
}

// SaleFilter narrows ListFiltered. Zero values match everything.
type SaleFilter struct {
	From           *time.Time
	To             *time.Time
	ClientID       string
	State          domain.SaleState
	IncludeDeleted bool
	OnlyDeleted    bool
}

func (f SaleFilter) Match(s *domain.Sale) bool {
	if f.OnlyDeleted && !s.Deleted() {
		return false
	}
	if f.From != nil && s.SoldAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !s.SoldAt.Before(*f.To) {
		return false
	}
	if f.ClientID != "" && s.ClientID != f.ClientID {
		return false
	}
	if f.State != "" && s.State != f.State {
		return false
	}
	return true
}

func (r SaleRepository) ListFiltered(ctx context.Context, f SaleFilter) ([]*domain.Sale, error) {
	opts := ListOptions{IncludeDeleted: f.IncludeDeleted || f.OnlyDeleted}
	return r.Find(ctx, opts, f.Match)
}
