package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmeticpos-backend/internal/db"
	"cosmeticpos-backend/internal/domain"
)

func newProduct(sku, name string) *domain.Product {
	return &domain.Product{
		SKU:           sku,
		Name:          name,
		PurchasePrice: decimal.NewFromInt(10000),
		SalePrice:     decimal.NewFromInt(15000),
		Stock:         5,
		MinStock:      2,
		Active:        true,
	}
}

func TestCollectionCreateAssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(db.NewMemory())

	p, err := repo.Create(ctx, newProduct("LIP-01", "Lipstick"))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lipstick", got.Name)
	assert.True(t, got.SalePrice.Equal(decimal.NewFromInt(15000)))
}

func TestCollectionMissingIDIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(db.NewMemory())

	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := repo.Update(ctx, "nope", func(p *domain.Product) error {
		p.Name = "x"
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, updated)

	ok, err := repo.SoftDelete(ctx, "nope", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Restore(ctx, "nope", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCollectionSoftDeleteRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(db.NewMemory())

	p, err := repo.Create(ctx, newProduct("MASC-01", "Mascara"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newProduct("BLUSH-01", "Blush"))
	require.NoError(t, err)

	ok, err := repo.SoftDelete(ctx, p.ID, nil)
	require.NoError(t, err)
	require.True(t, ok)

	list, err := repo.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Blush", list[0].Name)

	found, err := repo.Search(ctx, "masc", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = repo.Search(ctx, "masc", ListOptions{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err = repo.Restore(ctx, p.ID, nil)
	require.NoError(t, err)
	require.True(t, ok)

	restored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, p.SKU, restored.SKU)
	assert.Equal(t, p.Name, restored.Name)
	assert.Equal(t, p.Stock, restored.Stock)
	assert.Equal(t, p.CreatedAt, restored.CreatedAt)

	list, err = repo.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestCollectionUpdateSkipsTombstoned(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(db.NewMemory())

	p, err := repo.Create(ctx, newProduct("GLOSS-01", "Gloss"))
	require.NoError(t, err)
	ok, err := repo.SoftDelete(ctx, p.ID, nil)
	require.NoError(t, err)
	require.True(t, ok)

	updated, err := repo.Update(ctx, p.ID, func(p *domain.Product) error {
		p.Name = "Edited in the trash"
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, updated)

	_, err = repo.Restore(ctx, p.ID, nil)
	require.NoError(t, err)
	restored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gloss", restored.Name)
}

func TestCollectionListHidesInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(db.NewMemory())

	inactive := newProduct("OLD-01", "Discontinued serum")
	inactive.Active = false
	_, err := repo.Create(ctx, inactive)
	require.NoError(t, err)

	list, err := repo.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = repo.List(ctx, ListOptions{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(db.NewMemory())

	_, err := repo.Create(ctx, &domain.Client{
		DocumentNumber: "1020304050",
		FirstName:      "María",
		LastName:       "Gómez",
		Email:          "MARIA@example.com",
		Active:         true,
	})
	require.NoError(t, err)

	for _, q := range []string{"maría", "GÓMEZ", "example", "30405", "  "} {
		found, err := repo.Search(ctx, q, ListOptions{})
		require.NoError(t, err)
		assert.Len(t, found, 1, q)
	}
	found, err := repo.Search(ctx, "pedro", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUniqueLookups(t *testing.T) {
	ctx := context.Background()
	repos := New(db.NewMemory())

	_, err := repos.Users.Create(ctx, &domain.User{Username: "Admin", Active: true})
	require.NoError(t, err)
	u, err := repos.Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.Username)

	p, err := repos.Products.Create(ctx, newProduct("SKU-9", "Toner"))
	require.NoError(t, err)
	_, err = repos.Products.GetBySKU(ctx, "sku-9")
	require.NoError(t, err)

	_, err = repos.Products.SoftDelete(ctx, p.ID, nil)
	require.NoError(t, err)
	_, err = repos.Products.GetBySKU(ctx, "SKU-9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsFallBackToDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(db.NewMemory())

	inv, err := repo.GetInvoicing(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AEJ-", inv.Prefix)
	assert.Equal(t, 1, inv.CurrentNumber)

	inv.CurrentNumber = 42
	inv.UpdatedBy = "u1"
	require.NoError(t, repo.SaveInvoicing(ctx, inv))

	again, err := repo.GetInvoicing(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, again.CurrentNumber)
	assert.Equal(t, "u1", again.UpdatedBy)

	taxes, err := repo.GetTaxes(ctx)
	require.NoError(t, err)
	assert.True(t, taxes.GeneralVAT.Equal(decimal.NewFromInt(19)))
}

func TestMovementsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMovementRepository(db.NewMemory())

	for _, ref := range []string{"V-000001", "V-000002"} {
		_, err := repo.Create(ctx, &domain.InventoryMovement{ProductID: "p1", Kind: domain.MovementOut, Quantity: 1, Reference: ref})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &domain.InventoryMovement{ProductID: "p2", Kind: domain.MovementIn, Quantity: 3})
	require.NoError(t, err)

	items, err := repo.ListFiltered(ctx, MovementFilter{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "V-000002", items[0].Reference)
}
