package repository

import (
	"context"
	"errors"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
	"github.com/shopspring/decimal"
)

const settingsID = "default"

// SettingsRepository holds the three configuration singletons. Reads fall
// back to defaults until the first save.
type SettingsRepository struct {
	Company   Collection[domain.CompanySettings, *domain.CompanySettings]
	Taxes     Collection[domain.TaxSettings, *domain.TaxSettings]
	Invoicing Collection[domain.InvoicingSettings, *domain.InvoicingSettings]
}

func NewSettingsRepository(store ports.RecordStore) SettingsRepository {
	return SettingsRepository{
		Company:   Collection[domain.CompanySettings, *domain.CompanySettings]{Store: store, Name: "settings_company"},
		Taxes:     Collection[domain.TaxSettings, *domain.TaxSettings]{Store: store, Name: "settings_taxes"},
		Invoicing: Collection[domain.InvoicingSettings, *domain.InvoicingSettings]{Store: store, Name: "settings_invoicing"},
	}
}

func DefaultCompanySettings() domain.CompanySettings {
	return domain.CompanySettings{
		Base:             domain.Base{ID: settingsID},
		LegalName:        "AEJ Cosmetic & More S.A.S.",
		TaxID:            "900123456-1",
		Address:          "Calle 123 #45-67",
		City:             "Bogotá D.C.",
		Phone:            "+57 1 234 5678",
		Email:            "info@aejcosmetic.com",
		Website:          "https://www.aejcosmetic.com",
		Slogan:           "Tu belleza, nuestra pasión",
		TaxRegime:        "Responsable de IVA",
		EconomicActivity: "Comercio al por menor de productos cosméticos",
	}
}

func DefaultTaxSettings() domain.TaxSettings {
	return domain.TaxSettings{
		Base:              domain.Base{ID: settingsID},
		GeneralVAT:        decimal.NewFromInt(19),
		ProductVAT:        decimal.NewFromInt(19),
		WithholdingSource: decimal.RequireFromString("3.5"),
		WithholdingVAT:    decimal.NewFromInt(15),
		WithholdingICA:    decimal.NewFromInt(1),
	}
}

func DefaultInvoicingSettings() domain.InvoicingSettings {
	return domain.InvoicingSettings{
		Base:           domain.Base{ID: settingsID},
		Prefix:         "AEJ-",
		InitialNumber:  1,
		CurrentNumber:  1,
		Resolution:     "Resolución 000123 de 2024",
		ResolutionDate: "2024-01-01",
		RangeStart:     1,
		RangeEnd:       10000,
		ExpiresAt:      "2025-12-31",
	}
}

func (r SettingsRepository) GetCompany(ctx context.Context) (*domain.CompanySettings, error) {
	return getSingleton(ctx, r.Company, DefaultCompanySettings)
}

func (r SettingsRepository) SaveCompany(ctx context.Context, s *domain.CompanySettings) error {
	return saveSingleton(ctx, r.Company, s)
}

func (r SettingsRepository) GetTaxes(ctx context.Context) (*domain.TaxSettings, error) {
	return getSingleton(ctx, r.Taxes, DefaultTaxSettings)
}

func (r SettingsRepository) SaveTaxes(ctx context.Context, s *domain.TaxSettings) error {
	return saveSingleton(ctx, r.Taxes, s)
}

func (r SettingsRepository) GetInvoicing(ctx context.Context) (*domain.InvoicingSettings, error) {
	return getSingleton(ctx, r.Invoicing, DefaultInvoicingSettings)
}

func (r SettingsRepository) SaveInvoicing(ctx context.Context, s *domain.InvoicingSettings) error {
	return saveSingleton(ctx, r.Invoicing, s)
}

func getSingleton[T any, PT Record[T]](ctx context.Context, c Collection[T, PT], fallback func() T) (PT, error) {
	item, err := c.Get(ctx, settingsID)
	if errors.Is(err, ErrNotFound) {
		v := fallback()
		return PT(&v), nil
	}
	return item, err
}

func saveSingleton[T any, PT Record[T]](ctx context.Context, c Collection[T, PT], item PT) error {
	item.Meta().ID = settingsID
	_, err := c.Get(ctx, settingsID)
	if errors.Is(err, ErrNotFound) {
		_, err = c.Create(ctx, item)
		return err
	}
	if err != nil {
		return err
	}
	return c.Save(ctx, item)
}
