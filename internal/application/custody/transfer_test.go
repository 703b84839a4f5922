package custody_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/custodia-api/internal/application/auth"
	"github.com/jhoicas/custodia-api/internal/application/dto"
	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

func TestTransfer_ConservaElTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w1, c1 := entity.WarehouseLocation("w1"), entity.CustodyOf("r1")

	res, err := f.transfer.Transfer(ctx, bodeguero, dto.TransferRequest{
		SourceWarehouseID: "w1",
		RepresentativeID:  "r1",
		Items: []dto.TransferItem{
			{ProductID: "p1", Quantity: 50},
			{ProductID: "p2", Quantity: 8},
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 58, res.TotalUnits)

	assert.EqualValues(t, 50, f.qty(t, w1, "p1"))
	assert.EqualValues(t, 50, f.qty(t, c1, "p1"))
	assert.EqualValues(t, 12, f.qty(t, w1, "p2"))
	assert.EqualValues(t, 8, f.qty(t, c1, "p2"))

	movs, err := f.store.Movements().ListByReference(ctx, res.TransferID)
	require.NoError(t, err)
	require.Len(t, movs, 4)
	assert.Equal(t, entity.DirectionOut, movs[0].Direction)
	assert.Equal(t, w1, movs[0].Location)
	assert.Equal(t, entity.DirectionIn, movs[1].Direction)
	assert.Equal(t, c1, movs[1].Location)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeTransfer, m.Type)
		assert.Equal(t, entity.ReferenceTransfer, m.ReferenceType)
		assert.Equal(t, bodeguero.UserID, m.CreatedBy)
	}
}

func TestTransfer_LoteSinStockNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w1, c1 := entity.WarehouseLocation("w1"), entity.CustodyOf("r1")

	_, err := f.transfer.Transfer(ctx, bodeguero, dto.TransferRequest{
		SourceWarehouseID: "w1",
		RepresentativeID:  "r1",
		Items: []dto.TransferItem{
			{ProductID: "p1", Quantity: 10},
			{ProductID: "p2", Quantity: 21},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "p2", short.ProductID)
	assert.EqualValues(t, 20, short.Available)
	assert.EqualValues(t, 21, short.Requested)

	assert.EqualValues(t, 100, f.qty(t, w1, "p1"))
	assert.EqualValues(t, 0, f.qty(t, c1, "p1"))
	assert.EqualValues(t, 20, f.qty(t, w1, "p2"))

	movs, err := f.store.Movements().ListByLocation(ctx, w1, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestTransfer_LineasRepetidasSeSuman(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.transfer.Transfer(ctx, bodeguero, dto.TransferRequest{
		SourceWarehouseID: "w1",
		RepresentativeID:  "r1",
		Items: []dto.TransferItem{
			{ProductID: "p1", Quantity: 60},
			{ProductID: "p1", Quantity: 60},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	res, err := f.transfer.Transfer(ctx, bodeguero, dto.TransferRequest{
		SourceWarehouseID: "w1",
		RepresentativeID:  "r1",
		Items: []dto.TransferItem{
			{ProductID: "p1", Quantity: 30},
			{ProductID: "p1", Quantity: 30},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.EqualValues(t, 60, f.qty(t, entity.CustodyOf("r1"), "p1"))
}

func TestTransfer_Errores(t *testing.T) {
	cases := []struct {
		name string
		p    auth.Principal
		req  dto.TransferRequest
		want error
	}{
		{
			name: "vendedor sin permiso",
			p:    vendedor,
			req:  dto.TransferRequest{SourceWarehouseID: "w1", RepresentativeID: "r1", Items: []dto.TransferItem{{ProductID: "p1", Quantity: 1}}},
			want: domain.ErrForbidden,
		},
		{
			name: "sin principal",
			p:    auth.Principal{},
			req:  dto.TransferRequest{SourceWarehouseID: "w1", RepresentativeID: "r1", Items: []dto.TransferItem{{ProductID: "p1", Quantity: 1}}},
			want: domain.ErrUnauthorized,
		},
		{
			name: "cantidad cero",
			p:    bodeguero,
			req:  dto.TransferRequest{SourceWarehouseID: "w1", RepresentativeID: "r1", Items: []dto.TransferItem{{ProductID: "p1", Quantity: 0}}},
			want: domain.ErrValidation,
		},
		{
			name: "líneas repetidas que desbordan",
			p:    bodeguero,
			req: dto.TransferRequest{SourceWarehouseID: "w1", RepresentativeID: "r1", Items: []dto.TransferItem{
				{ProductID: "p1", Quantity: math.MaxInt64},
				{ProductID: "p1", Quantity: math.MaxInt64},
			}},
			want: domain.ErrValidation,
		},
		{
			name: "sin items",
			p:    bodeguero,
			req:  dto.TransferRequest{SourceWarehouseID: "w1", RepresentativeID: "r1"},
			want: domain.ErrValidation,
		},
		{
			name: "bodega inexistente",
			p:    bodeguero,
			req:  dto.TransferRequest{SourceWarehouseID: "w9", RepresentativeID: "r1", Items: []dto.TransferItem{{ProductID: "p1", Quantity: 1}}},
			want: domain.ErrNotFound,
		},
		{
			name: "vendedor inexistente",
			p:    bodeguero,
			req:  dto.TransferRequest{SourceWarehouseID: "w1", RepresentativeID: "r9", Items: []dto.TransferItem{{ProductID: "p1", Quantity: 1}}},
			want: domain.ErrNotFound,
		},
		{
			name: "vendedor sin agencia",
			p:    bodeguero,
			req:  dto.TransferRequest{SourceWarehouseID: "w1", RepresentativeID: "r2", Items: []dto.TransferItem{{ProductID: "p1", Quantity: 1}}},
			want: domain.ErrNotFound,
		},
		{
			name: "producto inexistente",
			p:    bodeguero,
			req:  dto.TransferRequest{SourceWarehouseID: "w1", RepresentativeID: "r1", Items: []dto.TransferItem{{ProductID: "p9", Quantity: 1}}},
			want: domain.ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.transfer.Transfer(context.Background(), tc.p, tc.req)
			require.ErrorIs(t, err, tc.want)
			assert.EqualValues(t, 100, f.qty(t, entity.WarehouseLocation("w1"), "p1"))
		})
	}
}
