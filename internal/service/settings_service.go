package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
)

type SettingsService struct {
	Deps
}

// Settings bundles the three configuration singletons.
type Settings struct {
	Company   *domain.CompanySettings   `json:"company"`
	Taxes     *domain.TaxSettings       `json:"taxes"`
	Invoicing *domain.InvoicingSettings `json:"invoicing"`
}

func (s SettingsService) Get(ctx context.Context, actor *domain.User) (*Settings, error) {
	if err := authorize(actor, authz.SettingsRead); err != nil {
		return nil, err
	}
	company, err := s.Repos.Settings.GetCompany(ctx)
	if err != nil {
		return nil, err
	}
	taxes, err := s.Repos.Settings.GetTaxes(ctx)
	if err != nil {
		return nil, err
	}
	invoicing, err := s.Repos.Settings.GetInvoicing(ctx)
	if err != nil {
		return nil, err
	}
	return &Settings{Company: company, Taxes: taxes, Invoicing: invoicing}, nil
}

func (s SettingsService) UpdateCompany(ctx context.Context, actor *domain.User, in domain.CompanySettings) (*domain.CompanySettings, error) {
	if err := authorize(actor, authz.SettingsCompany); err != nil {
		return nil, err
	}
	in.LegalName = strings.TrimSpace(in.LegalName)
	in.TaxID = strings.TrimSpace(in.TaxID)
	if in.LegalName == "" {
		return nil, invalid("legalName", "is required")
	}
	if in.TaxID == "" {
		return nil, invalid("taxId", "is required")
	}
	current, err := s.Repos.Settings.GetCompany(ctx)
	if err != nil {
		return nil, err
	}
	in.Base = current.Base
	in.UpdatedBy = actorID(actor)
	if err := s.Repos.Settings.SaveCompany(ctx, &in); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, domain.LogInfo, "Settings updated", "Company information")
	return &in, nil
}

func (s SettingsService) UpdateTaxes(ctx context.Context, actor *domain.User, in domain.TaxSettings) (*domain.TaxSettings, error) {
	if err := authorize(actor, authz.SettingsTaxes); err != nil {
		return nil, err
	}
	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"generalVat", in.GeneralVAT},
		{"productVat", in.ProductVAT},
		{"withholdingSource", in.WithholdingSource},
		{"withholdingVat", in.WithholdingVAT},
		{"withholdingIca", in.WithholdingICA},
	}
	for _, r := range rates {
		if r.value.IsNegative() || r.value.GreaterThan(hundred) {
			return nil, invalid(r.field, "must be between 0 and 100")
		}
	}
	current, err := s.Repos.Settings.GetTaxes(ctx)
	if err != nil {
		return nil, err
	}
	in.Base = current.Base
	in.UpdatedBy = actorID(actor)
	if err := s.Repos.Settings.SaveTaxes(ctx, &in); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, domain.LogInfo, "Settings updated", "Tax rates")
	return &in, nil
}

// UpdateInvoicing edits the numbering resolution. Super user only.
func (s SettingsService) UpdateInvoicing(ctx context.Context, actor *domain.User, in domain.InvoicingSettings) (*domain.InvoicingSettings, error) {
	if err := authorizeSuper(actor); err != nil {
		return nil, err
	}
	in.Prefix = strings.TrimSpace(in.Prefix)
	switch {
	case in.InitialNumber < 1:
		return nil, invalid("initialNumber", "must be at least 1")
	case in.CurrentNumber < in.InitialNumber:
		return nil, invalid("currentNumber", "must not be below the initial number")
	case in.RangeStart < 0 || in.RangeEnd < 0:
		return nil, invalid("rangeEnd", "must not be negative")
	case in.RangeEnd > 0 && in.RangeEnd < in.RangeStart:
		return nil, invalid("rangeEnd", "must not be below the range start")
	}
	var saved *domain.InvoicingSettings
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		current, err := s.Repos.Settings.GetInvoicing(ctx)
		if err != nil {
			return err
		}
		if in.Prefix == current.Prefix && in.CurrentNumber < current.CurrentNumber {
			return invalid("currentNumber", "must not go back below %d", current.CurrentNumber)
		}
		in.Base = current.Base
		in.UpdatedBy = actorID(actor)
		saved = &in
		return s.Repos.Settings.SaveInvoicing(ctx, saved)
	})
	if err != nil {
		return nil, err
	}
	s.log().Info("invoicing settings updated", "prefix", saved.Prefix, "current", saved.CurrentNumber, "by", actor.Username)
	s.audit(ctx, actor, domain.LogWarning, "Settings updated", "Invoicing resolution")
	return saved, nil
}
