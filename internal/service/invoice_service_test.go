package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
)

func (e *testEnv) paidSale(t *testing.T) *domain.Sale {
	t.Helper()
	e.users++
	p := e.product(t, "INV-"+string(rune('A'+e.users)), 45000, 10)
	sale, err := e.svc.Sales.Create(e.ctx, e.admin, cashSale(line(p, 2)))
	require.NoError(t, err)
	return sale
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "AEJ-000001", FormatInvoiceNumber("AEJ-", 1))
	assert.Equal(t, "F-123456", FormatInvoiceNumber("F-", 123456))
}

func TestInvoiceCreateMirrorsSaleAndAdvancesCounter(t *testing.T) {
	env := newTestEnv(t)
	sale := env.paidSale(t)

	inv, err := env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: sale.ID})
	require.NoError(t, err)
	assert.Equal(t, "AEJ-000001", inv.Number)
	assert.Equal(t, domain.InvoiceIssued, inv.State)
	assert.True(t, inv.Total.Equal(sale.Total))
	assert.True(t, inv.Subtotal.Equal(sale.Subtotal))
	assert.True(t, inv.TaxTotal.Equal(sale.TaxTotal))
	assert.Equal(t, testNow.Add(30*24*time.Hour), inv.DueAt)

	cfg, err := env.repos.Settings.GetInvoicing(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.CurrentNumber)
	assert.Equal(t, env.admin.ID, cfg.UpdatedBy)

	next, err := env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: env.paidSale(t).ID})
	require.NoError(t, err)
	assert.Equal(t, "AEJ-000002", next.Number)
}

func TestInvoiceSecondForSameSaleRejected(t *testing.T) {
	env := newTestEnv(t)
	sale := env.paidSale(t)

	_, err := env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: sale.ID})
	require.NoError(t, err)
	_, err = env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: sale.ID})
	assert.ErrorIs(t, err, ErrInvoiceExists)

	cfg, err := env.repos.Settings.GetInvoicing(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.CurrentNumber, "rejected invoice must not consume a number")
}

func TestInvoiceCounterCannotRewind(t *testing.T) {
	env := newTestEnv(t)
	first, err := env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: env.paidSale(t).ID})
	require.NoError(t, err)
	assert.Equal(t, "AEJ-000001", first.Number)

	cfg, err := env.repos.Settings.GetInvoicing(env.ctx)
	require.NoError(t, err)
	cfg.CurrentNumber = 1
	_, err = env.svc.Settings.UpdateInvoicing(env.ctx, env.admin, *cfg)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "currentNumber", verr.Field)

	next, err := env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: env.paidSale(t).ID})
	require.NoError(t, err)
	assert.Equal(t, "AEJ-000002", next.Number)
}

func TestInvoiceRefusesNumberAlreadyIssued(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: env.paidSale(t).ID})
	require.NoError(t, err)

	// switching prefixes away and back lands on a used number
	cfg, err := env.repos.Settings.GetInvoicing(env.ctx)
	require.NoError(t, err)
	cfg.Prefix, cfg.CurrentNumber = "TMP-", 1
	_, err = env.svc.Settings.UpdateInvoicing(env.ctx, env.admin, *cfg)
	require.NoError(t, err)
	cfg.Prefix = "AEJ-"
	_, err = env.svc.Settings.UpdateInvoicing(env.ctx, env.admin, *cfg)
	require.NoError(t, err)

	_, err = env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: env.paidSale(t).ID})
	assert.ErrorIs(t, err, ErrInvoiceExists)

	after, err := env.repos.Settings.GetInvoicing(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, after.CurrentNumber)
}

func TestInvoiceRangeExhausted(t *testing.T) {
	env := newTestEnv(t)
	cfg, err := env.repos.Settings.GetInvoicing(env.ctx)
	require.NoError(t, err)
	cfg.CurrentNumber, cfg.RangeEnd = 5, 5
	_, err = env.svc.Settings.UpdateInvoicing(env.ctx, env.admin, *cfg)
	require.NoError(t, err)

	_, err = env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: env.paidSale(t).ID})
	require.NoError(t, err)
	_, err = env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: env.paidSale(t).ID})
	assert.ErrorIs(t, err, ErrInvoiceRangeExhausted)
}

func TestInvoiceForVoidedOrMissingSale(t *testing.T) {
	env := newTestEnv(t)
	sale := env.paidSale(t)
	_, err := env.svc.Sales.Void(env.ctx, env.admin, sale.ID, "mistake")
	require.NoError(t, err)

	_, err = env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: sale.ID})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoiceLifecycle(t *testing.T) {
	env := newTestEnv(t)
	inv, err := env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: env.paidSale(t).ID})
	require.NoError(t, err)

	reprinted, err := env.svc.Invoices.Reprint(env.ctx, env.admin, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reprinted.ReprintCount)

	paid, err := env.svc.Invoices.MarkPaid(env.ctx, env.admin, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, paid.State)
	require.NotNil(t, paid.PaidAt)

	_, err = env.svc.Invoices.MarkPaid(env.ctx, env.admin, inv.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = env.svc.Invoices.Void(env.ctx, env.admin, "missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoiceOverdueOnRead(t *testing.T) {
	env := newTestEnv(t)
	inv, err := env.svc.Invoices.Create(env.ctx, env.admin, InvoiceInput{SaleID: env.paidSale(t).ID})
	require.NoError(t, err)

	*env.clock = testNow.Add(31 * 24 * time.Hour)
	list, err := env.svc.Invoices.List(env.ctx, env.admin, InvoiceFilter{State: domain.InvoiceOverdue})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inv.ID, list[0].ID)

	stored, err := env.repos.Invoices.Get(env.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceOverdue, stored.State)
}

func TestInvoicePermissions(t *testing.T) {
	env := newTestEnv(t)
	sale := env.paidSale(t)
	reader := env.userWith(t, domain.RoleAccountant, authz.InvoicingRead)

	_, err := env.svc.Invoices.Create(env.ctx, reader, InvoiceInput{SaleID: sale.ID})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.Invoices.List(env.ctx, reader, InvoiceFilter{})
	assert.NoError(t, err)
}
