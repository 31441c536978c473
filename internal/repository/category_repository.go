package repository

import (
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
)

type CategoryRepository struct {
	Collection[domain.Category, *domain.Category]
}

func NewCategoryRepository(store ports.RecordStore) CategoryRepository {
	return CategoryRepository{Collection[domain.Category, *domain.Category]{
		Store: store,
		Name:  "categories",
		SearchFields: func(c *domain.Category) []string {
			return []string{c.Name, c.Description}
		},
	}}
}

type BrandRepository struct {
	Collection[domain.Brand, *domain.Brand]
}

func NewBrandRepository(store ports.RecordStore) BrandRepository {
	return BrandRepository{Collection[domain.Brand, *domain.Brand]{
		Store: store,
		Name:  "brands",
		SearchFields: func(b *domain.Brand) []string {
			return []string{b.Name, b.Description}
		},
	}}
}
