package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

type ProductService struct {
	Deps
}

// ProductInput is a partial product. Nil fields are left unchanged on update
// and take defaults on create.
type ProductInput struct {
	SKU           *string          `json:"sku"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	CategoryID    *string          `json:"categoryId"`
	BrandID       *string          `json:"brandId"`
	SupplierID    *string          `json:"supplierId"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	SalePrice     *decimal.Decimal `json:"salePrice"`
	Stock         *int             `json:"stock"`
	MinStock      *int             `json:"minStock"`
	Taxable       *bool            `json:"taxable"`
	TaxRate       *decimal.Decimal `json:"taxRate"`
	Active        *bool            `json:"active"`
}

func (in ProductInput) apply(p *domain.Product) {
	setString(&p.SKU, in.SKU)
	setString(&p.Name, in.Name)
	setString(&p.Description, in.Description)
	setString(&p.CategoryID, in.CategoryID)
	setString(&p.BrandID, in.BrandID)
	setString(&p.SupplierID, in.SupplierID)
	if in.PurchasePrice != nil {
		p.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		p.SalePrice = *in.SalePrice
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.Taxable != nil {
		p.Taxable = *in.Taxable
	}
	if in.TaxRate != nil {
		p.TaxRate = *in.TaxRate
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
}

func (s ProductService) validate(ctx context.Context, p *domain.Product) error {
	switch {
	case p.SKU == "":
		return invalid("sku", "is required")
	case p.Name == "":
		return invalid("name", "is required")
	case p.PurchasePrice.IsNegative():
		return invalid("purchasePrice", "must not be negative")
	case !p.SalePrice.GreaterThan(p.PurchasePrice):
		return invalid("salePrice", "must be greater than the purchase price")
	case p.Stock < 0:
		return invalid("stock", "must not be negative")
	case p.MinStock < 0:
		return invalid("minStock", "must not be negative")
	case p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(hundred):
		return invalid("taxRate", "must be between 0 and 100")
	}

	dup, err := s.Repos.Products.GetBySKU(ctx, p.SKU)
	if err == nil && dup.ID != p.ID {
		return invalid("sku", "%q is already in use", p.SKU)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if p.CategoryID != "" {
		if _, err := s.Repos.Categories.Get(ctx, p.CategoryID); err != nil {
			return referenceError("categoryId", err)
		}
	}
	if p.BrandID != "" {
		if _, err := s.Repos.Brands.Get(ctx, p.BrandID); err != nil {
			return referenceError("brandId", err)
		}
	}
	if p.SupplierID != "" {
		if _, err := s.Repos.Suppliers.Get(ctx, p.SupplierID); err != nil {
			return referenceError("supplierId", err)
		}
	}
	return nil
}

func referenceError(field string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return invalid(field, "does not exist")
	}
	return err
}

func (s ProductService) List(ctx context.Context, actor *domain.User, query string, opts repository.ListOptions) ([]*domain.Product, error) {
	if err := authorize(actor, authz.ProductsRead); err != nil {
		return nil, err
	}
	return s.Repos.Products.Search(ctx, query, opts)
}

func (s ProductService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Product, error) {
	if err := authorize(actor, authz.ProductsRead); err != nil {
		return nil, err
	}
	return s.Repos.Products.Get(ctx, id)
}

// Create stores a product. Opening stock is recorded as an IN movement.
func (s ProductService) Create(ctx context.Context, actor *domain.User, in ProductInput) (*domain.Product, error) {
	if err := authorize(actor, authz.ProductsWrite); err != nil {
		return nil, err
	}
	p := &domain.Product{
		Active:   true,
		Taxable:  true,
		TaxRate:  decimal.NewFromInt(19),
		MinStock: 5,
	}
	in.apply(p)
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	p.Name = strings.TrimSpace(p.Name)
	opening := 0
	if in.Stock != nil {
		opening = *in.Stock
	}
	if opening < 0 {
		return nil, invalid("stock", "must not be negative")
	}

	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, p); err != nil {
			return err
		}
		if _, err := s.Repos.Products.Create(ctx, p); err != nil {
			return err
		}
		if opening == 0 {
			return nil
		}
		_, err := applyMovement(ctx, s.Deps, actor, p, MovementInput{
			ProductID: p.ID,
			Kind:      domain.MovementIn,
			Quantity:  opening,
			Reason:    "Opening stock",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actor, domain.LogInfo, "Product created", fmt.Sprintf("%s %s", p.SKU, p.Name))
	return p, nil
}

// Update merges in into the product. Stock only changes through inventory
// movements and sales, so in.Stock is rejected.
func (s ProductService) Update(ctx context.Context, actor *domain.User, id string, in ProductInput) (*domain.Product, error) {
	if err := authorize(actor, authz.ProductsWrite); err != nil {
		return nil, err
	}
	if in.Stock != nil {
		return nil, invalid("stock", "use an inventory movement to change stock")
	}
	var p *domain.Product
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.Repos.Products.Update(ctx, id, func(p *domain.Product) error {
			in.apply(p)
			p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
			p.Name = strings.TrimSpace(p.Name)
			return s.validate(ctx, p)
		})
		return err
	})
	if err != nil || p == nil {
		return nil, err
	}
	return p, nil
}

func (s ProductService) Delete(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorize(actor, authz.ProductsDelete); err != nil {
		return false, err
	}
	ok, err := s.Repos.Products.SoftDelete(ctx, id, nil)
	if ok {
		s.audit(ctx, actor, domain.LogWarning, "Product deleted", id)
	}
	return ok, err
}

// Restore brings a product back unless its SKU was reused meanwhile.
func (s ProductService) Restore(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorize(actor, authz.ProductsDelete); err != nil {
		return false, err
	}
	var ok bool
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		p, err := s.Repos.Products.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if dup, err := s.Repos.Products.GetBySKU(ctx, p.SKU); err == nil && dup.ID != p.ID {
			return invalid("sku", "%q is already in use", p.SKU)
		}
		ok, err = s.Repos.Products.Restore(ctx, id, nil)
		return err
	})
	return ok, err
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
