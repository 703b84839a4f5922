package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/inventory"
)

func TestReconcile_VendidoEsCustodiaMenosConteo(t *testing.T) {
	out, err := inventory.Reconcile([]inventory.Count{
		{ProductID: "p1", UnitsPerCarton: 12, Baseline: 50, Cartons: 2, Units: 3},
		{ProductID: "p2", UnitsPerCarton: 6, Baseline: 12, Cartons: 2, Units: 0},
		{ProductID: "p3", UnitsPerCarton: 10, Baseline: 30, Cartons: 0, Units: 0},
	})
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.EqualValues(t, 27, out[0].Actual)
	assert.EqualValues(t, 23, out[0].Sold)
	assert.EqualValues(t, 0, out[1].Sold)
	assert.EqualValues(t, 0, out[2].Actual)
	assert.EqualValues(t, 30, out[2].Sold)
	for _, r := range out {
		assert.GreaterOrEqual(t, r.Sold, int64(0))
	}
}

func TestReconcile_ConteoMayorEsAmbiguo(t *testing.T) {
	_, err := inventory.Reconcile([]inventory.Count{
		{ProductID: "p1", UnitsPerCarton: 12, Baseline: 10, Cartons: 1, Units: 0},
		{ProductID: "p2", UnitsPerCarton: 12, Baseline: 10, Cartons: 0, Units: 5},
		{ProductID: "p3", UnitsPerCarton: 12, Baseline: 0, Cartons: 0, Units: 1},
	})
	require.ErrorIs(t, err, domain.ErrComputationAmbiguity)

	var amb *domain.ComputationAmbiguityError
	require.True(t, errors.As(err, &amb))
	require.Len(t, amb.Items, 2)
	assert.Equal(t, "p1", amb.Items[0].ProductID)
	assert.EqualValues(t, 12, amb.Items[0].Actual)
	assert.Equal(t, "p3", amb.Items[1].ProductID)
}

func TestReconcile_ConteoNegativo(t *testing.T) {
	_, err := inventory.Reconcile([]inventory.Count{
		{ProductID: "p1", UnitsPerCarton: 12, Baseline: 10, Cartons: -1},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReconcile_ConteoQueDesbordaEsAmbiguo(t *testing.T) {
	// 3074457345618258603 cajas x 6 = 2^64 + 2: sin tope daría 2 unidades contadas.
	_, err := inventory.Reconcile([]inventory.Count{
		{ProductID: "p2", UnitsPerCarton: 6, Baseline: 12, Cartons: 3074457345618258603},
		{ProductID: "p1", UnitsPerCarton: 12, Baseline: 12, Cartons: 1, Units: math.MaxInt64},
	})
	require.ErrorIs(t, err, domain.ErrComputationAmbiguity)

	var amb *domain.ComputationAmbiguityError
	require.True(t, errors.As(err, &amb))
	require.Len(t, amb.Items, 2)
	for _, it := range amb.Items {
		assert.EqualValues(t, int64(math.MaxInt64), it.Actual, it.ProductID)
	}
}

func TestActualUnits_Limites(t *testing.T) {
	assert.EqualValues(t, 27, inventory.ActualUnits(2, 3, 12))
	assert.EqualValues(t, int64(math.MaxInt64), inventory.ActualUnits(0, math.MaxInt64, 12))
	assert.EqualValues(t, int64(math.MaxInt64-1), inventory.ActualUnits(math.MaxInt64/2, 0, 2))
	assert.EqualValues(t, int64(math.MaxInt64), inventory.ActualUnits(math.MaxInt64/2+1, 0, 2))
}
