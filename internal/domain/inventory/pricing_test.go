package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/inventory"
)

func testProduct() *entity.Product {
	return &entity.Product{
		ID:                   "p1",
		UnitsPerCarton:       12,
		FactoryPrice:         decimal.RequireFromString("80"),
		WholesaleCartonPrice: decimal.RequireFromString("100"),
		RetailCartonPrice:    decimal.RequireFromString("120"),
		// precios unitarios almacenados: no son exactamente 100/12 ni 120/12
		WholesaleUnitPrice: decimal.RequireFromString("8.50"),
		RetailUnitPrice:    decimal.RequireFromString("10.25"),
	}
}

// 23 unidades = 1 caja + 11 unidades; se usa el precio unitario almacenado.
func TestResolve_CajasYUnidades(t *testing.T) {
	p := testProduct()

	b, err := inventory.Resolve(p, entity.TierWholesale, 23)
	require.NoError(t, err)
	assert.EqualValues(t, 1, b.FullCartons)
	assert.EqualValues(t, 11, b.LooseUnits)
	assert.True(t, b.Total.Equal(decimal.RequireFromString("193.50")), "got %s", b.Total)

	b, err = inventory.Resolve(p, entity.TierRetail, 23)
	require.NoError(t, err)
	assert.True(t, b.Total.Equal(decimal.RequireFromString("232.75")), "got %s", b.Total)
}

func TestResolve_NoEsProporcional(t *testing.T) {
	p := testProduct()
	b, err := inventory.Resolve(p, entity.TierWholesale, 23)
	require.NoError(t, err)

	proporcional := decimal.NewFromInt(23).Mul(p.WholesaleCartonPrice.Div(decimal.NewFromInt(12)))
	assert.False(t, b.Total.Equal(proporcional), "la valorización no debe recalcular el precio unitario")
}

func TestResolve_CasosBorde(t *testing.T) {
	p := testProduct()

	b, err := inventory.Resolve(p, entity.TierRetail, 0)
	require.NoError(t, err)
	assert.True(t, b.Total.IsZero())

	b, err = inventory.Resolve(p, entity.TierRetail, 24)
	require.NoError(t, err)
	assert.EqualValues(t, 2, b.FullCartons)
	assert.EqualValues(t, 0, b.LooseUnits)
	assert.True(t, b.Total.Equal(decimal.RequireFromString("240")))

	_, err = inventory.Resolve(p, entity.TierRetail, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = inventory.Resolve(p, entity.PricingTier("VIP"), 5)
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad := testProduct()
	bad.UnitsPerCarton = 0
	_, err = inventory.Resolve(bad, entity.TierRetail, 5)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResolve_UnaUnidadPorCaja(t *testing.T) {
	p := testProduct()
	p.UnitsPerCarton = 1
	b, err := inventory.Resolve(p, entity.TierWholesale, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 7, b.FullCartons)
	assert.EqualValues(t, 0, b.LooseUnits)
	assert.True(t, b.Total.Equal(decimal.RequireFromString("700")))
}
