package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/config"
	"cosmeticpos-backend/internal/db"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

var testNow = time.Date(2024, 6, 14, 15, 30, 0, 0, time.UTC)

type testEnv struct {
	ctx   context.Context
	svc   Services
	repos repository.Repositories
	admin *domain.User
	clock *time.Time
	users int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	now := testNow
	repos := repository.New(db.NewMemory())
	deps := Deps{
		Repos:    repos,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:    func() time.Time { return now },
		Location: time.UTC,
	}
	cfg := config.Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour}
	env := &testEnv{ctx: context.Background(), svc: New(deps, cfg), repos: repos, clock: &now}

	admin, err := env.svc.Auth.EnsureSuperuser(env.ctx, "supersecret")
	require.NoError(t, err)
	env.admin = admin
	return env
}

// userWith creates an active user holding exactly perms.
func (e *testEnv) userWith(t *testing.T, role domain.UserRole, perms ...string) *domain.User {
	t.Helper()
	if perms == nil {
		perms = []string{}
	}
	e.users++
	u, err := e.svc.Users.Create(e.ctx, e.admin, UserInput{
		Username:    ptr(fmt.Sprintf("%s-%d", strings.ToLower(string(role)), e.users)),
		Password:    ptr("secret123"),
		FullName:    ptr("Test " + string(role)),
		Role:        ptr(role),
		Permissions: perms,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) seller(t *testing.T) *domain.User {
	t.Helper()
	return e.userWith(t, domain.RoleSeller, authz.DefaultPermissions(domain.RoleSeller)...)
}

func (e *testEnv) product(t *testing.T, sku string, salePrice int64, stock int) *domain.Product {
	t.Helper()
	p, err := e.svc.Products.Create(e.ctx, e.admin, ProductInput{
		SKU:           ptr(sku),
		Name:          ptr("Product " + sku),
		PurchasePrice: ptr(decimal.NewFromInt(salePrice / 2)),
		SalePrice:     ptr(decimal.NewFromInt(salePrice)),
		Stock:         ptr(stock),
		MinStock:      ptr(2),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) client(t *testing.T, document string) *domain.Client {
	t.Helper()
	c, err := e.svc.Clients.Create(e.ctx, e.admin, ClientInput{
		DocumentNumber: ptr(document),
		FirstName:      ptr("Ana"),
		LastName:       ptr("Pérez"),
		DataConsent:    ptr(true),
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) reload(t *testing.T, p *domain.Product) *domain.Product {
	t.Helper()
	got, err := e.repos.Products.Get(e.ctx, p.ID)
	require.NoError(t, err)
	return got
}

func cashSale(items ...SaleLineInput) SaleInput {
	return SaleInput{
		Items:          items,
		PaymentMethod:  domain.PaymentCash,
		AmountTendered: decimal.NewFromInt(10_000_000),
	}
}

func line(p *domain.Product, qty int) SaleLineInput {
	return SaleLineInput{ProductID: p.ID, Quantity: qty}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var listDefault = repository.ListOptions{}
