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

type SupplierService struct {
	Deps
}

type SupplierInput struct {
	TaxID        *string `json:"taxId"`
	LegalName    *string `json:"legalName"`
	TradeName    *string `json:"tradeName"`
	ContactName  *string `json:"contactName"`
	ContactEmail *string `json:"contactEmail"`
	ContactPhone *string `json:"contactPhone"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	Website      *string `json:"website"`
	Notes        *string `json:"notes"`
	Active       *bool   `json:"active"`
}

func (in SupplierInput) apply(s *domain.Supplier) {
	setString(&s.TaxID, in.TaxID)
	setString(&s.LegalName, in.LegalName)
	setString(&s.TradeName, in.TradeName)
	setString(&s.ContactName, in.ContactName)
	setString(&s.ContactEmail, in.ContactEmail)
	setString(&s.ContactPhone, in.ContactPhone)
	setString(&s.Address, in.Address)
	setString(&s.City, in.City)
	setString(&s.Country, in.Country)
	setString(&s.Website, in.Website)
	setString(&s.Notes, in.Notes)
	if in.Active != nil {
		s.Active = *in.Active
	}
}

func (s SupplierService) validate(ctx context.Context, sup *domain.Supplier) error {
	if sup.TaxID == "" {
		return invalid("taxId", "is required")
	}
	if sup.LegalName == "" {
		return invalid("legalName", "is required")
	}
	dup, err := s.Repos.Suppliers.GetByTaxID(ctx, sup.TaxID)
	if err == nil && dup.ID != sup.ID {
		return invalid("taxId", "%q is already registered", sup.TaxID)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s SupplierService) List(ctx context.Context, actor *domain.User, query string, opts repository.ListOptions) ([]*domain.Supplier, error) {
	if err := authorize(actor, authz.SuppliersRead); err != nil {
		return nil, err
	}
	return s.Repos.Suppliers.Search(ctx, query, opts)
}

func (s SupplierService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Supplier, error) {
	if err := authorize(actor, authz.SuppliersRead); err != nil {
		return nil, err
	}
	return s.Repos.Suppliers.Get(ctx, id)
}

func (s SupplierService) Create(ctx context.Context, actor *domain.User, in SupplierInput) (*domain.Supplier, error) {
	if err := authorize(actor, authz.SuppliersWrite); err != nil {
		return nil, err
	}
	sup := &domain.Supplier{Active: true, Country: "Colombia"}
	in.apply(sup)
	if sup.TradeName == "" {
		sup.TradeName = sup.LegalName
	}
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, sup); err != nil {
			return err
		}
		_, err := s.Repos.Suppliers.Create(ctx, sup)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actor, domain.LogInfo, "Supplier registered", fmt.Sprintf("%s (%s)", sup.LegalName, sup.TaxID))
	return sup, nil
}

func (s SupplierService) Update(ctx context.Context, actor *domain.User, id string, in SupplierInput) (*domain.Supplier, error) {
	if err := authorize(actor, authz.SuppliersWrite); err != nil {
		return nil, err
	}
	var sup *domain.Supplier
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		var err error
		sup, err = s.Repos.Suppliers.Update(ctx, id, func(sup *domain.Supplier) error {
			in.apply(sup)
			return s.validate(ctx, sup)
		})
		return err
	})
	if err != nil || sup == nil {
		return nil, err
	}
	return sup, nil
}

func (s SupplierService) Delete(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorize(actor, authz.SuppliersDelete); err != nil {
		return false, err
	}
	ok, err := s.Repos.Suppliers.SoftDelete(ctx, id, nil)
	if ok {
		s.audit(ctx, actor, domain.LogWarning, "Supplier deleted", id)
	}
	return ok, err
}

func (s SupplierService) Restore(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorize(actor, authz.SuppliersDelete); err != nil {
		return false, err
	}
	var ok bool
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		sup, err := s.Repos.Suppliers.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if dup, err := s.Repos.Suppliers.GetByTaxID(ctx, sup.TaxID); err == nil && dup.ID != sup.ID {
			return invalid("taxId", "%q is already registered", sup.TaxID)
		}
		ok, err = s.Repos.Suppliers.Restore(ctx, id, nil)
		return err
	})
	return ok, err
}

type EvaluationInput struct {
	Quality  int    `json:"quality"`
	Price    int    `json:"price"`
	Delivery int    `json:"delivery"`
	Service  int    `json:"service"`
	Comments string `json:"comments"`
}

// Evaluate scores a supplier on four 1..5 criteria and stores the average.
func (s SupplierService) Evaluate(ctx context.Context, actor *domain.User, supplierID string, in EvaluationInput) (*domain.SupplierEvaluation, error) {
	if err := authorize(actor, authz.SuppliersEvaluate); err != nil {
		return nil, err
	}
	scores := []struct {
		field string
		value int
	}{{"quality", in.Quality}, {"price", in.Price}, {"delivery", in.Delivery}, {"service", in.Service}}
	for _, sc := range scores {
		if sc.value < 1 || sc.value > 5 {
			return nil, invalid(sc.field, "score must be between 1 and 5")
		}
	}
	sup, err := s.Repos.Suppliers.Get(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if sup.Deleted() {
		return nil, ErrNotFound
	}
	sum := decimal.NewFromInt(int64(in.Quality + in.Price + in.Delivery + in.Service))
	return s.Repos.Evaluations.Create(ctx, &domain.SupplierEvaluation{
		SupplierID: sup.ID,
		Quality:    in.Quality,
		Price:      in.Price,
		Delivery:   in.Delivery,
		Service:    in.Service,
		Average:    sum.Div(decimal.NewFromInt(4)).Round(2),
		Comments:   strings.TrimSpace(in.Comments),
		UserID:     actor.ID,
	})
}

func (s SupplierService) Evaluations(ctx context.Context, actor *domain.User, supplierID string) ([]*domain.SupplierEvaluation, error) {
	if err := authorize(actor, authz.SuppliersRead); err != nil {
		return nil, err
	}
	return s.Repos.Evaluations.ListBySupplier(ctx, supplierID)
}
