package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"

	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

type ClientService struct {
	Deps
}

type ClientInput struct {
	DocumentType   *domain.DocumentType   `json:"documentType"`
	DocumentNumber *string                `json:"documentNumber"`
	FirstName      *string                `json:"firstName"`
	LastName       *string                `json:"lastName"`
	CompanyName    *string                `json:"companyName"`
	Email          *string                `json:"email"`
	Phone          *string                `json:"phone"`
	Address        *string                `json:"address"`
	City           *string                `json:"city"`
	DataConsent    *bool                  `json:"dataConsent"`
	ConsentChannel *domain.ConsentChannel `json:"consentChannel"`
	Active         *bool                  `json:"active"`
}

func (in ClientInput) apply(c *domain.Client) {
	if in.DocumentType != nil {
		c.DocumentType = *in.DocumentType
	}
	setString(&c.DocumentNumber, in.DocumentNumber)
	setString(&c.FirstName, in.FirstName)
	setString(&c.LastName, in.LastName)
	setString(&c.CompanyName, in.CompanyName)
	setString(&c.Email, in.Email)
	setString(&c.Phone, in.Phone)
	setString(&c.Address, in.Address)
	setString(&c.City, in.City)
	if in.DataConsent != nil {
		c.DataConsent = *in.DataConsent
	}
	if in.ConsentChannel != nil {
		c.ConsentChannel = *in.ConsentChannel
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
}

func (s ClientService) validate(ctx context.Context, c *domain.Client) error {
	switch c.DocumentType {
	case domain.DocumentCC, domain.DocumentNIT, domain.DocumentCE, domain.DocumentTI:
	default:
		return invalid("documentType", "unsupported document type %q", c.DocumentType)
	}
	switch c.ConsentChannel {
	case domain.ConsentWeb, domain.ConsentInPerson, domain.ConsentPhone:
	default:
		return invalid("consentChannel", "unsupported channel %q", c.ConsentChannel)
	}
	if c.DocumentNumber == "" {
		return invalid("documentNumber", "is required")
	}
	if c.FirstName == "" && c.CompanyName == "" {
		return invalid("firstName", "a name or company name is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return invalid("email", "is not a valid address")
		}
	}
	if !c.DataConsent {
		return invalid("dataConsent", "data processing consent is required")
	}
	dup, err := s.Repos.Clients.GetByDocument(ctx, c.DocumentNumber)
	if err == nil && dup.ID != c.ID {
		return invalid("documentNumber", "%q is already registered", c.DocumentNumber)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s ClientService) List(ctx context.Context, actor *domain.User, query string, opts repository.ListOptions) ([]*domain.Client, error) {
	if err := authorize(actor, authz.ClientsRead); err != nil {
		return nil, err
	}
	return s.Repos.Clients.Search(ctx, query, opts)
}

// Export lists clients for spreadsheet export.
func (s ClientService) Export(ctx context.Context, actor *domain.User) ([]*domain.Client, error) {
	if err := authorize(actor, authz.ClientsExport); err != nil {
		return nil, err
	}
	return s.Repos.Clients.List(ctx, repository.ListOptions{})
}

func (s ClientService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Client, error) {
	if err := authorize(actor, authz.ClientsRead); err != nil {
		return nil, err
	}
	return s.Repos.Clients.Get(ctx, id)
}

// Create registers a client as NEW with zero counters. Consent is stamped.
func (s ClientService) Create(ctx context.Context, actor *domain.User, in ClientInput) (*domain.Client, error) {
	if err := authorize(actor, authz.ClientsWrite); err != nil {
		return nil, err
	}
	c := &domain.Client{
		DocumentType:   domain.DocumentCC,
		ConsentChannel: domain.ConsentInPerson,
		Tier:           domain.TierNew,
		TotalSpent:     decimal.Zero,
		Active:         true,
	}
	in.apply(c)
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, c); err != nil {
			return err
		}
		now := s.now()
		c.DataConsentAt = &now
		_, err := s.Repos.Clients.Create(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actor, domain.LogInfo, "Client registered", fmt.Sprintf("%s (%s)", c.DisplayName(), c.DocumentNumber))
	return c, nil
}

// Update merges in. Tier and purchase statistics are owned by the ledger.
func (s ClientService) Update(ctx context.Context, actor *domain.User, id string, in ClientInput) (*domain.Client, error) {
	if err := authorize(actor, authz.ClientsWrite); err != nil {
		return nil, err
	}
	var c *domain.Client
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.Repos.Clients.Update(ctx, id, func(c *domain.Client) error {
			hadConsent := c.DataConsent
			in.apply(c)
			if err := s.validate(ctx, c); err != nil {
				return err
			}
			if !hadConsent {
				now := s.now()
				c.DataConsentAt = &now
			}
			return nil
		})
		return err
	})
	if err != nil || c == nil {
		return nil, err
	}
	return c, nil
}

func (s ClientService) Delete(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorize(actor, authz.ClientsDelete); err != nil {
		return false, err
	}
	ok, err := s.Repos.Clients.SoftDelete(ctx, id, nil)
	if ok {
		s.audit(ctx, actor, domain.LogWarning, "Client deleted", id)
	}
	return ok, err
}

func (s ClientService) Restore(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorize(actor, authz.ClientsDelete); err != nil {
		return false, err
	}
	var ok bool
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		c, err := s.Repos.Clients.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if dup, err := s.Repos.Clients.GetByDocument(ctx, c.DocumentNumber); err == nil && dup.ID != c.ID {
			return invalid("documentNumber", "%q is already registered", c.DocumentNumber)
		}
		ok, err = s.Repos.Clients.Restore(ctx, id, nil)
		return err
	})
	return ok, err
}

// History lists the client's sales, newest first.
func (s ClientService) History(ctx context.Context, actor *domain.User, id string) ([]*domain.Sale, error) {
	if err := authorize(actor, authz.ClientsRead); err != nil {
		return nil, err
	}
	if _, err := s.Repos.Clients.Get(ctx, id); err != nil {
		return nil, err
	}
	sales, err := s.Repos.Sales.ListFiltered(ctx, repository.SaleFilter{ClientID: id})
	if err != nil {
		return nil, err
	}
	slices.Reverse(sales)
	return sales, nil
}
