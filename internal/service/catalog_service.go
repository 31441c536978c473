package service

import (
	"context"
	"strings"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

// CatalogService manages categories and brands.
type CatalogService struct {
	Deps
}

type LabelInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (in LabelInput) apply(name, description *string, active *bool) error {
	setString(name, in.Name)
	setString(description, in.Description)
	if in.Active != nil {
		*active = *in.Active
	}
	if *name == "" {
		return invalid("name", "is required")
	}
	return nil
}

func (s CatalogService) ListCategories(ctx context.Context, actor *domain.User, query string, opts repository.ListOptions) ([]*domain.Category, error) {
	if err := authorize(actor, authz.ProductsRead); err != nil {
		return nil, err
	}
	return s.Repos.Categories.Search(ctx, query, opts)
}

func (s CatalogService) CreateCategory(ctx context.Context, actor *domain.User, in LabelInput) (*domain.Category, error) {
	if err := authorize(actor, authz.ProductsWrite); err != nil {
		return nil, err
	}
	c := &domain.Category{Active: true}
	if err := in.apply(&c.Name, &c.Description, &c.Active); err != nil {
		return nil, err
	}
	if err := s.uniqueCategory(ctx, c.ID, c.Name); err != nil {
		return nil, err
	}
	return s.Repos.Categories.Create(ctx, c)
}

func (s CatalogService) UpdateCategory(ctx context.Context, actor *domain.User, id string, in LabelInput) (*domain.Category, error) {
	if err := authorize(actor, authz.ProductsWrite); err != nil {
		return nil, err
	}
	return s.Repos.Categories.Update(ctx, id, func(c *domain.Category) error {
		if err := in.apply(&c.Name, &c.Description, &c.Active); err != nil {
			return err
		}
		return s.uniqueCategory(ctx, c.ID, c.Name)
	})
}

func (s CatalogService) DeleteCategory(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorize(actor, authz.ProductsWrite); err != nil {
		return false, err
	}
	return s.Repos.Categories.SoftDelete(ctx, id, nil)
}

func (s CatalogService) uniqueCategory(ctx context.Context, id, name string) error {
	dup, err := s.Repos.Categories.FindOne(ctx, func(c *domain.Category) bool {
		return !c.Deleted() && c.ID != id && strings.EqualFold(c.Name, name)
	})
	if err != nil {
		return err
	}
	if dup != nil {
		return invalid("name", "category %q already exists", name)
	}
	return nil
}

func (s CatalogService) ListBrands(ctx context.Context, actor *domain.User, query string, opts repository.ListOptions) ([]*domain.Brand, error) {
	if err := authorize(actor, authz.ProductsRead); err != nil {
		return nil, err
	}
	return s.Repos.Brands.Search(ctx, query, opts)
}

func (s CatalogService) CreateBrand(ctx context.Context, actor *domain.User, in LabelInput) (*domain.Brand, error) {
	if err := authorize(actor, authz.ProductsWrite); err != nil {
		return nil, err
	}
	b := &domain.Brand{Active: true}
	if err := in.apply(&b.Name, &b.Description, &b.Active); err != nil {
		return nil, err
	}
	if err := s.uniqueBrand(ctx, b.ID, b.Name); err != nil {
		return nil, err
	}
	return s.Repos.Brands.Create(ctx, b)
}

func (s CatalogService) UpdateBrand(ctx context.Context, actor *domain.User, id string, in LabelInput) (*domain.Brand, error) {
	if err := authorize(actor, authz.ProductsWrite); err != nil {
		return nil, err
	}
	return s.Repos.Brands.Update(ctx, id, func(b *domain.Brand) error {
		if err := in.apply(&b.Name, &b.Description, &b.Active); err != nil {
			return err
		}
		return s.uniqueBrand(ctx, b.ID, b.Name)
	})
}

func (s CatalogService) DeleteBrand(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorize(actor, authz.ProductsWrite); err != nil {
		return false, err
	}
	return s.Repos.Brands.SoftDelete(ctx, id, nil)
}

func (s CatalogService) uniqueBrand(ctx context.Context, id, name string) error {
	dup, err := s.Repos.Brands.FindOne(ctx, func(b *domain.Brand) bool {
		return !b.Deleted() && b.ID != id && strings.EqualFold(b.Name, name)
	})
	if err != nil {
		return err
	}
	if dup != nil {
		return invalid("name", "brand %q already exists", name)
	}
	return nil
}
