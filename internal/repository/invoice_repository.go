package repository

import (
	"context"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
)

type InvoiceRepository struct {
	Collection[domain.Invoice, *domain.Invoice]
}

func NewInvoiceRepository(store ports.RecordStore) InvoiceRepository {
	return InvoiceRepository{Collection[domain.Invoice, *domain.Invoice]{
		Store: store,
		Name:  "invoices",
		SearchFields: func(i *domain.Invoice) []string {
			return []string{i.Number, i.Notes}
		},
	}}
}

// GetBySale returns the invoice issued for saleID, voided ones included.
func (r InvoiceRepository) GetBySale(ctx context.Context, saleID string) (*domain.Invoice, error) {
	inv, err := r.FindOne(ctx, func(i *domain.Invoice) bool { return i.SaleID == saleID })
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	return inv, nil
}

// GetByNumber finds the invoice holding number, voided ones included.
func (r InvoiceRepository) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	inv, err := r.FindOne(ctx, func(i *domain.Invoice) bool { return i.Number == number })
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	return inv, nil
}
