package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

func TestPriceLine(t *testing.T) {
	sub, tax, total := PriceLine(dec("45000"), 2, true, dec("19"))
	assert.True(t, sub.Equal(dec("90000")))
	assert.True(t, tax.Equal(dec("17100")))
	assert.True(t, total.Equal(dec("107100")))

	_, tax, total = PriceLine(dec("45000"), 1, false, dec("19"))
	assert.True(t, tax.IsZero())
	assert.True(t, total.Equal(dec("45000")))

	_, tax, _ = PriceLine(dec("0.99"), 1, true, dec("19"))
	assert.True(t, tax.Equal(dec("0.19")), "tax is rounded to cents: %s", tax)
}

func TestClassifyClient(t *testing.T) {
	cases := []struct {
		purchases int
		spent     int64
		want      domain.ClientTier
	}{
		{0, 0, domain.TierNew},
		{2, 100000, domain.TierNew},
		{3, 1, domain.TierOccasional},
		{10, 999_999, domain.TierOccasional},
		{10, 1_000_000, domain.TierFrequent},
		{20, 1_999_999, domain.TierFrequent},
		{20, 2_000_000, domain.TierVIP},
		{50, 500_000, domain.TierOccasional},
	}
	for _, tc := range cases {
		got := ClassifyClient(tc.purchases, decimal.NewFromInt(tc.spent))
		assert.Equal(t, tc.want, got, "purchases=%d spent=%d", tc.purchases, tc.spent)
	}
}

func TestSeedDemoData(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, SeedDemoData(env.ctx, env.svc, env.admin))
	// second run is a no-op
	require.NoError(t, SeedDemoData(env.ctx, env.svc, env.admin))

	products, err := env.repos.Products.List(env.ctx, repository.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, products, 5)

	low, err := env.svc.Inventory.LowStock(env.ctx, env.admin)
	require.NoError(t, err)
	assert.Len(t, low, 2)

	clients, err := env.repos.Clients.List(env.ctx, repository.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, clients, 2)
}
