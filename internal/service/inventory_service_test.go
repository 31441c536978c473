package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
)

func TestOpeningStockIsRecordedAsMovement(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "COS-001", 45000, 12)

	kardex, err := env.svc.Inventory.Kardex(env.ctx, env.admin, p.ID)
	require.NoError(t, err)
	require.Len(t, kardex, 1)
	assert.Equal(t, domain.MovementIn, kardex[0].Kind)
	assert.Equal(t, 0, kardex[0].StockBefore)
	assert.Equal(t, 12, kardex[0].StockAfter)
}

func TestInventoryAdjustKinds(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "COS-001", 45000, 10)

	m, err := env.svc.Inventory.Adjust(env.ctx, env.admin, MovementInput{ProductID: p.ID, Kind: domain.MovementIn, Quantity: 5, Reason: "Purchase"})
	require.NoError(t, err)
	assert.Equal(t, 15, m.StockAfter)

	m, err = env.svc.Inventory.Adjust(env.ctx, env.admin, MovementInput{ProductID: p.ID, Kind: domain.MovementOut, Quantity: 3, Reason: "Damaged"})
	require.NoError(t, err)
	assert.Equal(t, 15, m.StockBefore)
	assert.Equal(t, 12, m.StockAfter)

	m, err = env.svc.Inventory.Adjust(env.ctx, env.admin, MovementInput{ProductID: p.ID, Kind: domain.MovementAdjust, Quantity: 7, Reason: "Count"})
	require.NoError(t, err)
	assert.Equal(t, 7, m.StockAfter)
	assert.Equal(t, 7, env.reload(t, p).Stock)

	_, err = env.svc.Inventory.Adjust(env.ctx, env.admin, MovementInput{ProductID: p.ID, Kind: domain.MovementOut, Quantity: 8, Reason: "Loss"})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 7, env.reload(t, p).Stock)

	kardex, err := env.svc.Inventory.Kardex(env.ctx, env.admin, p.ID)
	require.NoError(t, err)
	require.Len(t, kardex, 4)
	assert.Equal(t, domain.MovementAdjust, kardex[0].Kind, "newest first")
}

func TestInventoryAdjustValidation(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "COS-001", 45000, 10)

	_, err := env.svc.Inventory.Adjust(env.ctx, env.admin, MovementInput{ProductID: p.ID, Kind: domain.MovementIn, Quantity: 0, Reason: "x"})
	assert.True(t, IsValidation(err))
	_, err = env.svc.Inventory.Adjust(env.ctx, env.admin, MovementInput{ProductID: p.ID, Kind: domain.MovementIn, Quantity: 1})
	assert.True(t, IsValidation(err))
	_, err = env.svc.Inventory.Adjust(env.ctx, env.admin, MovementInput{ProductID: "missing", Kind: domain.MovementIn, Quantity: 1, Reason: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	seller := env.seller(t)
	_, err = env.svc.Inventory.Adjust(env.ctx, seller, MovementInput{ProductID: p.ID, Kind: domain.MovementIn, Quantity: 1, Reason: "x"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestInventoryLowStockAndValuation(t *testing.T) {
	env := newTestEnv(t)
	env.product(t, "A-1", 10000, 10)
	low := env.product(t, "B-1", 20000, 2)

	lowStock, err := env.svc.Inventory.LowStock(env.ctx, env.admin)
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, low.ID, lowStock[0].ID)

	v, err := env.svc.Inventory.Valuation(env.ctx, env.admin)
	require.NoError(t, err)
	assert.Equal(t, 12, v.TotalUnits)
	// 10*5000 + 2*10000
	assert.True(t, v.TotalCost.Equal(dec("70000")), v.TotalCost.String())
	assert.True(t, v.TotalRetail.Equal(dec("140000")), v.TotalRetail.String())

	warehouse := env.userWith(t, domain.RoleWarehouse, authz.InventoryRead)
	_, err = env.svc.Inventory.Valuation(env.ctx, warehouse)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestProductUpdateRejectsStockAndDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A-1", 10000, 1)
	env.product(t, "B-1", 10000, 1)

	_, err := env.svc.Products.Update(env.ctx, env.admin, a.ID, ProductInput{Stock: ptr(50)})
	assert.True(t, IsValidation(err))

	_, err = env.svc.Products.Update(env.ctx, env.admin, a.ID, ProductInput{SKU: ptr("b-1")})
	assert.True(t, IsValidation(err))

	_, err = env.svc.Products.Update(env.ctx, env.admin, a.ID, ProductInput{SalePrice: ptr(dec("4000"))})
	assert.True(t, IsValidation(err), "sale price below purchase price")

	updated, err := env.svc.Products.Update(env.ctx, env.admin, "missing", ProductInput{Name: ptr("x")})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestProductSoftDeleteRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "A-1", 10000, 1)

	ok, err := env.svc.Products.Delete(env.ctx, env.admin, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	list, err := env.svc.Products.List(env.ctx, env.admin, "", listDefault)
	require.NoError(t, err)
	assert.Empty(t, list)

	ok, err = env.svc.Products.Restore(env.ctx, env.admin, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	list, err = env.svc.Products.List(env.ctx, env.admin, "a-1", listDefault)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.Name, list[0].Name)
	assert.Equal(t, p.Stock, list[0].Stock)
}
