package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

func TestLocation_KeyYParse(t *testing.T) {
	wh := entity.WarehouseLocation("wh-1")
	custody := entity.CustodyOf("rep-1")

	assert.Equal(t, "WAREHOUSE:wh-1", wh.Key())
	assert.Equal(t, "REP_CUSTODY:rep-1", custody.Key())
	assert.True(t, custody.IsCustody())
	assert.False(t, wh.IsCustody())

	// una bodega y una custodia con el mismo ID nunca comparten llave
	assert.NotEqual(t, entity.WarehouseLocation("x").Key(), entity.CustodyOf("x").Key())

	parsed, err := entity.ParseLocation("REP_CUSTODY:rep-1")
	require.NoError(t, err)
	assert.Equal(t, custody, parsed)
}

func TestLocation_ParseInvalida(t *testing.T) {
	for _, key := range []string{"", "WAREHOUSE", "WAREHOUSE:", "OTRO:x"} {
		_, err := entity.ParseLocation(key)
		assert.Error(t, err, key)
	}
}
