package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmeticpos-backend/internal/domain"
)

func TestDashboardSummaryCountsTodayOnly(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A-1", 10000, 10)
	low := env.product(t, "B-1", 20000, 2)
	env.client(t, "100")

	*env.clock = testNow.AddDate(0, 0, -1)
	_, err := env.svc.Sales.Create(env.ctx, env.admin, cashSale(line(a, 1)))
	require.NoError(t, err)

	*env.clock = testNow
	_, err = env.svc.Sales.Create(env.ctx, env.admin, cashSale(line(a, 1)))
	require.NoError(t, err)
	voided, err := env.svc.Sales.Create(env.ctx, env.admin, cashSale(line(low, 1)))
	require.NoError(t, err)
	_, err = env.svc.Sales.Void(env.ctx, env.admin, voided.ID, "wrong item")
	require.NoError(t, err)
	deleted, err := env.svc.Sales.Create(env.ctx, env.admin, cashSale(line(a, 1)))
	require.NoError(t, err)
	_, err = env.svc.Sales.Delete(env.ctx, env.admin, deleted.ID, "test")
	require.NoError(t, err)

	sum, err := env.svc.Dashboard.Summary(env.ctx, env.admin)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-14", sum.Date)
	assert.Equal(t, 1, sum.SalesCount)
	assert.True(t, sum.SalesToday.Equal(dec("11900")), sum.SalesToday.String())
	assert.True(t, sum.AverageTicket.Equal(dec("11900")))
	assert.Equal(t, 2, sum.ActiveProducts)
	assert.Equal(t, 1, sum.ActiveClients)
	require.Len(t, sum.Alerts, 1)
	assert.Equal(t, low.ID, sum.Alerts[0].ID)
	assert.Equal(t, 1, sum.LowStockCount)
}

func TestDashboardEmptyDay(t *testing.T) {
	env := newTestEnv(t)
	sum, err := env.svc.Dashboard.Summary(env.ctx, env.admin)
	require.NoError(t, err)
	assert.Zero(t, sum.SalesCount)
	assert.True(t, sum.AverageTicket.IsZero())
	assert.NotNil(t, sum.Alerts)

	_, err = env.svc.Dashboard.Summary(env.ctx, env.userWith(t, domain.RoleSeller))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDashboardSeriesAndTopProducts(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A-1", 10000, 10)
	b := env.product(t, "B-1", 50000, 10)

	*env.clock = testNow.AddDate(0, 0, -2)
	_, err := env.svc.Sales.Create(env.ctx, env.admin, cashSale(line(a, 3)))
	require.NoError(t, err)
	*env.clock = testNow
	_, err = env.svc.Sales.Create(env.ctx, env.admin, cashSale(line(b, 1)))
	require.NoError(t, err)

	series, err := env.svc.Dashboard.SalesSeries(env.ctx, env.admin, 3)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, "2024-06-12", series[0].Date)
	assert.Equal(t, 1, series[0].Count)
	assert.Zero(t, series[1].Count)
	assert.Equal(t, "2024-06-14", series[2].Date)

	top, err := env.svc.Dashboard.TopProducts(env.ctx, env.admin, 7, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, b.ID, top[0].ProductID)
}

func TestReportsOverRange(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A-1", 10000, 20) // purchase 5000
	c := env.client(t, "200")

	*env.clock = testNow.AddDate(0, 0, -10)
	_, err := env.svc.Sales.Create(env.ctx, env.admin, cashSale(line(a, 5)))
	require.NoError(t, err)

	*env.clock = testNow
	in := cashSale(line(a, 2))
	in.ClientID = c.ID
	_, err = env.svc.Sales.Create(env.ctx, env.admin, in)
	require.NoError(t, err)
	_, err = env.svc.Sales.Create(env.ctx, env.admin, cashSale(line(a, 1)))
	require.NoError(t, err)

	from := testNow.AddDate(0, 0, -1)
	to := testNow
	r := DateRange{From: &from, To: &to}

	days, err := env.svc.Reports.SalesByDay(env.ctx, env.admin, r)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 2, days[0].Count)
	// (20000 + 3800) + (10000 + 1900)
	assert.True(t, days[0].Total.Equal(dec("35700")), days[0].Total.String())
	assert.True(t, days[0].Average.Equal(dec("17850")))

	products, err := env.svc.Reports.ProductsSold(env.ctx, env.admin, r)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].Quantity)
	assert.True(t, products[0].Margin.Equal(dec("50")), products[0].Margin.String())

	clients, err := env.svc.Reports.Clients(env.ctx, env.admin, r)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, 1, clients[0].Purchases)
	assert.True(t, clients[0].Spent.Equal(dec("23800")))

	m, err := env.svc.Reports.Metrics(env.ctx, env.admin, r)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Transactions)
	assert.True(t, m.TotalCost.Equal(dec("15000")), m.TotalCost.String())
	assert.True(t, m.GrossProfit.Equal(dec("20700")), m.GrossProfit.String())

	all, err := env.svc.Reports.Metrics(env.ctx, env.admin, DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Transactions)
}

func TestReportPermissions(t *testing.T) {
	env := newTestEnv(t)
	seller := env.seller(t)

	_, err := env.svc.Reports.SalesByDay(env.ctx, seller, DateRange{})
	assert.NoError(t, err)
	_, err = env.svc.Reports.ProductsSold(env.ctx, seller, DateRange{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, env.svc.Reports.CanExport(seller), ErrPermissionDenied)
}

func TestDateRangeToIsInclusive(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A-1", 10000, 5)
	*env.clock = time.Date(2024, 6, 14, 23, 59, 0, 0, time.UTC)
	_, err := env.svc.Sales.Create(env.ctx, env.admin, cashSale(line(a, 1)))
	require.NoError(t, err)

	day := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	m, err := env.svc.Reports.Metrics(env.ctx, env.admin, DateRange{From: &day, To: &day})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Transactions)
}
