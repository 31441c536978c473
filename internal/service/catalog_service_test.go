package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmeticpos-backend/internal/domain"
)

func TestCategoryNamesAreUnique(t *testing.T) {
	env := newTestEnv(t)

	c, err := env.svc.Catalog.CreateCategory(env.ctx, env.admin, LabelInput{Name: ptr("Maquillaje")})
	require.NoError(t, err)
	assert.True(t, c.Active)

	_, err = env.svc.Catalog.CreateCategory(env.ctx, env.admin, LabelInput{Name: ptr("maquillaje")})
	assert.True(t, IsValidation(err))

	_, err = env.svc.Catalog.CreateBrand(env.ctx, env.admin, LabelInput{Name: ptr("  ")})
	assert.True(t, IsValidation(err))

	_, err = env.svc.Catalog.CreateCategory(env.ctx, env.seller(t), LabelInput{Name: ptr("Perfumes")})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestProductReferencesMustExist(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Products.Create(env.ctx, env.admin, ProductInput{
		SKU:           ptr("X-1"),
		Name:          ptr("X"),
		CategoryID:    ptr("missing"),
		PurchasePrice: ptr(dec("1")),
		SalePrice:     ptr(dec("2")),
	})
	assert.True(t, IsValidation(err))
}

func TestClientRequiresConsentAndUniqueDocument(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Clients.Create(env.ctx, env.admin, ClientInput{
		DocumentNumber: ptr("555"),
		FirstName:      ptr("Luz"),
	})
	assert.True(t, IsValidation(err), "consent is required")

	c := env.client(t, "555")
	assert.Equal(t, domain.TierNew, c.Tier)
	assert.Zero(t, c.PurchaseCount)
	assert.True(t, c.TotalSpent.IsZero())
	require.NotNil(t, c.DataConsentAt)

	_, err = env.svc.Clients.Create(env.ctx, env.admin, ClientInput{
		DocumentNumber: ptr("555"),
		FirstName:      ptr("Other"),
		DataConsent:    ptr(true),
	})
	assert.True(t, IsValidation(err))

	_, err = env.svc.Clients.Update(env.ctx, env.admin, c.ID, ClientInput{Email: ptr("not-an-email")})
	assert.True(t, IsValidation(err))
}

func TestClientSoftDeleteRoundTripAndSearch(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t, "12345678")

	found, err := env.svc.Clients.List(env.ctx, env.admin, "pérez", listDefault)
	require.NoError(t, err)
	require.Len(t, found, 1)

	ok, err := env.svc.Clients.Delete(env.ctx, env.admin, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	found, err = env.svc.Clients.List(env.ctx, env.admin, "", listDefault)
	require.NoError(t, err)
	assert.Empty(t, found)

	// the document is free while the client sits in the trash
	other := env.client(t, "12345678")
	_, err = env.svc.Clients.Restore(env.ctx, env.admin, c.ID)
	assert.True(t, IsValidation(err))

	_, err = env.svc.Clients.Delete(env.ctx, env.admin, other.ID)
	require.NoError(t, err)
	ok, err = env.svc.Clients.Restore(env.ctx, env.admin, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	restored, err := env.svc.Clients.Get(env.ctx, env.admin, c.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted())
	assert.Equal(t, c.DisplayName(), restored.DisplayName())
}

func TestClientHistoryNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t, "777")
	p := env.product(t, "A-1", 1000, 10)
	for i := 0; i < 2; i++ {
		in := cashSale(line(p, 1))
		in.ClientID = c.ID
		_, err := env.svc.Sales.Create(env.ctx, env.admin, in)
		require.NoError(t, err)
	}
	history, err := env.svc.Clients.History(env.ctx, env.admin, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "V-000002", history[0].Number)
}

func TestSupplierTaxIDUniqueAndEvaluation(t *testing.T) {
	env := newTestEnv(t)
	sup, err := env.svc.Suppliers.Create(env.ctx, env.admin, SupplierInput{TaxID: ptr("900123456-1"), LegalName: ptr("Distribuidora SAS")})
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora SAS", sup.TradeName)
	assert.Equal(t, "Colombia", sup.Country)

	_, err = env.svc.Suppliers.Create(env.ctx, env.admin, SupplierInput{TaxID: ptr("900123456-1"), LegalName: ptr("Other")})
	assert.True(t, IsValidation(err))

	_, err = env.svc.Suppliers.Evaluate(env.ctx, env.admin, sup.ID, EvaluationInput{Quality: 6, Price: 3, Delivery: 3, Service: 3})
	assert.True(t, IsValidation(err))

	ev, err := env.svc.Suppliers.Evaluate(env.ctx, env.admin, sup.ID, EvaluationInput{Quality: 5, Price: 4, Delivery: 4, Service: 4})
	require.NoError(t, err)
	assert.True(t, ev.Average.Equal(dec("4.25")), ev.Average.String())

	evs, err := env.svc.Suppliers.Evaluations(env.ctx, env.admin, sup.ID)
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}

func TestSettingsUpdates(t *testing.T) {
	env := newTestEnv(t)

	all, err := env.svc.Settings.Get(env.ctx, env.admin)
	require.NoError(t, err)
	assert.Equal(t, "AEJ-", all.Invoicing.Prefix)
	assert.True(t, all.Taxes.GeneralVAT.Equal(dec("19")))

	company := *all.Company
	company.LegalName = "Nueva Razón Social"
	saved, err := env.svc.Settings.UpdateCompany(env.ctx, env.admin, company)
	require.NoError(t, err)
	assert.Equal(t, env.admin.ID, saved.UpdatedBy)

	taxes := *all.Taxes
	taxes.GeneralVAT = dec("120")
	_, err = env.svc.Settings.UpdateTaxes(env.ctx, env.admin, taxes)
	assert.True(t, IsValidation(err))

	accountant := env.userWith(t, domain.RoleAccountant, "settings.read", "settings.company", "settings.taxes")
	_, err = env.svc.Settings.UpdateInvoicing(env.ctx, accountant, *all.Invoicing)
	assert.ErrorIs(t, err, ErrPermissionDenied, "invoicing resolution is super user only")

	reloaded, err := env.repos.Settings.GetCompany(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nueva Razón Social", reloaded.LegalName)
}

func TestActivityLogRecordsBusinessEvents(t *testing.T) {
	env := newTestEnv(t)
	env.client(t, "999")

	logs, err := env.svc.ActivityLog.List(env.ctx, env.admin, 10)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "Client registered", logs[0].Title)
	assert.Equal(t, "superadmin", logs[0].Actor)

	_, err = env.svc.ActivityLog.List(env.ctx, env.seller(t), 10)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	entry, err := env.svc.ActivityLog.Record(env.ctx, env.admin, ActivityLogInput{Title: "Drawer", Message: "Cash drawer opened"})
	require.NoError(t, err)
	assert.Equal(t, domain.LogInfo, entry.Type)
}
