package repository

import (
	"context"
	"strings"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
)

type SupplierRepository struct {
	Collection[domain.Supplier, *domain.Supplier]
}

func NewSupplierRepository(store ports.RecordStore) SupplierRepository {
	return SupplierRepository{Collection[domain.Supplier, *domain.Supplier]{
		Store: store,
		Name:  "suppliers",
		SearchFields: func(s *domain.Supplier) []string {
			return []string{s.LegalName, s.TradeName, s.TaxID, s.ContactEmail}
		},
	}}
}

// GetByTaxID ignores tombstoned suppliers.
func (r SupplierRepository) GetByTaxID(ctx context.Context, taxID string) (*domain.Supplier, error) {
	s, err := r.FindOne(ctx, func(s *domain.Supplier) bool {
		return !s.Deleted() && strings.EqualFold(s.TaxID, strings.TrimSpace(taxID))
	})
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

type EvaluationRepository struct {
	Collection[domain.SupplierEvaluation, *domain.SupplierEvaluation]
}

func NewEvaluationRepository(store ports.RecordStore) EvaluationRepository {
	return EvaluationRepository{Collection[domain.SupplierEvaluation, *domain.SupplierEvaluation]{
		Store: store,
		Name:  "supplier_evaluations",
	}}
}

func (r EvaluationRepository) ListBySupplier(ctx context.Context, supplierID string) ([]*domain.SupplierEvaluation, error) {
	return r.Find(ctx, ListOptions{}, func(e *domain.SupplierEvaluation) bool {
		return e.SupplierID == supplierID
	})
}
