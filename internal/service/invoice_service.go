package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/metrics"
	"cosmeticpos-backend/internal/repository"
)

const defaultInvoiceTerm = 30 * 24 * time.Hour

type InvoiceService struct {
	Deps
}

type InvoiceInput struct {
	SaleID   string
	ClientID string
	DueAt    *time.Time
	Notes    string
}

// FormatInvoiceNumber renders prefix + six-digit counter.
func FormatInvoiceNumber(prefix string, n int) string {
	return fmt.Sprintf("%s%06d", prefix, n)
}

// Create issues the invoice for a sale. The number is taken from the
// invoicing settings counter, which is advanced in the same atomic unit.
func (s InvoiceService) Create(ctx context.Context, actor *domain.User, in InvoiceInput) (*domain.Invoice, error) {
	if err := authorize(actor, authz.InvoicingWrite); err != nil {
		return nil, err
	}
	if in.SaleID == "" {
		return nil, invalid("saleId", "is required")
	}

	var inv *domain.Invoice
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		sale, err := s.Repos.Sales.Get(ctx, in.SaleID)
		if err != nil {
			return err
		}
		if sale.Deleted() {
			return ErrNotFound
		}
		if sale.State == domain.SaleVoided {
			return fmt.Errorf("%w: sale %s is voided", ErrInvalidState, sale.Number)
		}

		existing, err := s.Repos.Invoices.GetBySale(ctx, sale.ID)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrInvoiceExists, existing.Number)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		cfg, err := s.Repos.Settings.GetInvoicing(ctx)
		if err != nil {
			return err
		}
		if cfg.RangeEnd > 0 && cfg.CurrentNumber > cfg.RangeEnd {
			return fmt.Errorf("%w: next %d, range ends at %d", ErrInvoiceRangeExhausted, cfg.CurrentNumber, cfg.RangeEnd)
		}
		number := FormatInvoiceNumber(cfg.Prefix, cfg.CurrentNumber)
		if _, err := s.Repos.Invoices.GetByNumber(ctx, number); err == nil {
			return fmt.Errorf("%w: number %s already issued", ErrInvoiceExists, number)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		cfg.CurrentNumber++
		cfg.UpdatedBy = actor.ID
		if err := s.Repos.Settings.SaveInvoicing(ctx, cfg); err != nil {
			return err
		}

		clientID := in.ClientID
		if clientID == "" {
			clientID = sale.ClientID
		}
		issued := s.now()
		due := issued.Add(defaultInvoiceTerm)
		if in.DueAt != nil {
			if in.DueAt.Before(issued.Truncate(24 * time.Hour)) {
				return invalid("dueAt", "must not be before the issue date")
			}
			due = in.DueAt.UTC()
		}
		inv, err = s.Repos.Invoices.Create(ctx, &domain.Invoice{
			Number:   number,
			SaleID:   sale.ID,
			ClientID: clientID,
			UserID:   actor.ID,
			IssuedAt: issued,
			DueAt:    due,
			Subtotal: sale.Subtotal,
			TaxTotal: sale.TaxTotal,
			Total:    sale.Total,
			State:    domain.InvoiceIssued,
			Notes:    strings.TrimSpace(in.Notes),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordInvoice("issued")
	s.log().Info("invoice issued", "number", inv.Number, "sale", inv.SaleID, "user", actor.Username)
	s.audit(ctx, actor, domain.LogInfo, "Invoice issued", fmt.Sprintf("Invoice %s for %s", inv.Number, inv.Total.StringFixed(moneyPlaces)))
	return inv, nil
}

func (s InvoiceService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Invoice, error) {
	if err := authorize(actor, authz.InvoicingRead); err != nil {
		return nil, err
	}
	inv, err := s.Repos.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.markOverdue(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

type InvoiceFilter struct {
	State    domain.InvoiceState
	ClientID string
	Query    string
}

// List returns invoices in issue order. Issued invoices past their due date
// are switched to OVERDUE as they are read.
func (s InvoiceService) List(ctx context.Context, actor *domain.User, f InvoiceFilter) ([]*domain.Invoice, error) {
	if err := authorize(actor, authz.InvoicingRead); err != nil {
		return nil, err
	}
	all, err := s.Repos.Invoices.Search(ctx, f.Query, repository.ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Invoice, 0, len(all))
	for _, inv := range all {
		if err := s.markOverdue(ctx, inv); err != nil {
			return nil, err
		}
		if f.State != "" && inv.State != f.State {
			continue
		}
		if f.ClientID != "" && inv.ClientID != f.ClientID {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s InvoiceService) markOverdue(ctx context.Context, inv *domain.Invoice) error {
	if inv.State != domain.InvoiceIssued || !s.now().After(inv.DueAt) {
		return nil
	}
	inv.State = domain.InvoiceOverdue
	return s.Repos.Invoices.Save(ctx, inv)
}

func (s InvoiceService) Void(ctx context.Context, actor *domain.User, id, reason string) (*domain.Invoice, error) {
	if err := authorize(actor, authz.InvoicingCancel); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalid("reason", "is required")
	}
	inv, err := s.transition(ctx, id, func(inv *domain.Invoice) error {
		if inv.State == domain.InvoiceVoided {
			return fmt.Errorf("%w: invoice %s already voided", ErrInvalidState, inv.Number)
		}
		now := s.now()
		inv.State = domain.InvoiceVoided
		inv.VoidedAt = &now
		inv.VoidedBy = actor.ID
		inv.VoidReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordInvoice("voided")
	s.audit(ctx, actor, domain.LogWarning, "Invoice voided", fmt.Sprintf("Invoice %s voided: %s", inv.Number, reason))
	return inv, nil
}

func (s InvoiceService) MarkPaid(ctx context.Context, actor *domain.User, id string) (*domain.Invoice, error) {
	if err := authorize(actor, authz.InvoicingWrite); err != nil {
		return nil, err
	}
	inv, err := s.transition(ctx, id, func(inv *domain.Invoice) error {
		if inv.State != domain.InvoiceIssued && inv.State != domain.InvoiceOverdue {
			return fmt.Errorf("%w: invoice %s is %s", ErrInvalidState, inv.Number, inv.State)
		}
		now := s.now()
		inv.State = domain.InvoicePaid
		inv.PaidAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordInvoice("paid")
	s.audit(ctx, actor, domain.LogInfo, "Invoice paid", fmt.Sprintf("Invoice %s marked as paid", inv.Number))
	return inv, nil
}

// Reprint counts a reprint of a non-voided invoice and returns it.
func (s InvoiceService) Reprint(ctx context.Context, actor *domain.User, id string) (*domain.Invoice, error) {
	if err := authorize(actor, authz.InvoicingReprint); err != nil {
		return nil, err
	}
	inv, err := s.transition(ctx, id, func(inv *domain.Invoice) error {
		if inv.State == domain.InvoiceVoided {
			return fmt.Errorf("%w: invoice %s is voided", ErrInvalidState, inv.Number)
		}
		inv.ReprintCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordInvoice("reprinted")
	return inv, nil
}

func (s InvoiceService) transition(ctx context.Context, id string, fn func(*domain.Invoice) error) (*domain.Invoice, error) {
	var inv *domain.Invoice
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.Repos.Invoices.Update(ctx, id, fn)
		if err != nil {
			return err
		}
		if inv == nil {
			return ErrNotFound
		}
		return nil
	})
	return inv, err
}
