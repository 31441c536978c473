package repository

import (
	"context"
	"strings"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
)

type ProductRepository struct {
	Collection[domain.Product, *domain.Product]
}

func NewProductRepository(store ports.RecordStore) ProductRepository {
	return ProductRepository{Collection[domain.Product, *domain.Product]{
		Store: store,
		Name:  "products",
		SearchFields: func(p *domain.Product) []string {
			return []string{p.Name, p.SKU, p.Description}
		},
	}}
}

// GetBySKU ignores tombstoned products.
func (r ProductRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	p, err := r.FindOne(ctx, func(p *domain.Product) bool {
		return !p.Deleted() && strings.EqualFold(p.SKU, strings.TrimSpace(sku))
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// LowStock lists active products at or below their minimum stock.
func (r ProductRepository) LowStock(ctx context.Context) ([]*domain.Product, error) {
	return r.Find(ctx, ListOptions{}, func(p *domain.Product) bool { return p.LowStock() })
}
