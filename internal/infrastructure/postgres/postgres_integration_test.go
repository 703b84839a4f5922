package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/custodia-api/internal/application/auth"
	"github.com/jhoicas/custodia-api/internal/application/custody"
	"github.com/jhoicas/custodia-api/internal/application/dto"
	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/infrastructure/memory"
	"github.com/jhoicas/custodia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/custodia-api/pkg/config"
)

func TestTransferYLiquidacionSobrePostgres(t *testing.T) {
	databaseURL := os.Getenv("CUSTODY_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set CUSTODY_TEST_DATABASE_URL to run postgres integration test")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: databaseURL})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))

	stamp := time.Now().UnixNano()
	productID := fmt.Sprintf("p-it-%d", stamp)
	warehouseID := fmt.Sprintf("w-it-%d", stamp)
	repID := fmt.Sprintf("r-it-%d", stamp)
	now := time.Now().UTC()

	dir := postgres.Directory(pool)
	require.NoError(t, dir.Products.Create(ctx, &entity.Product{
		ID: productID, Name: "Producto IT", UnitsPerCarton: 12,
		WholesaleCartonPrice: decimal.RequireFromString("100"), WholesaleUnitPrice: decimal.RequireFromString("8.50"),
		RetailCartonPrice: decimal.RequireFromString("120"), RetailUnitPrice: decimal.RequireFromString("10.25"),
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, dir.Warehouses.Create(ctx, &entity.Warehouse{ID: warehouseID, AgencyID: "a-it", Name: "IT", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, dir.Representatives.Create(ctx, &entity.Representative{ID: repID, Name: "IT", AgencyID: "a-it", PricingTier: entity.TierWholesale, CreatedAt: now, UpdatedAt: now}))

	stock := postgres.NewStockRepository(pool)
	wh := entity.WarehouseLocation(warehouseID)
	require.NoError(t, stock.Save(ctx, &entity.StockEntry{Location: wh, ProductID: productID, Quantity: 100, Version: 1, UpdatedAt: now}))

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM sale_lines WHERE product_id = $1`, productID)
		_, _ = pool.Exec(ctx, `DELETE FROM sales WHERE seller_id = $1`, repID)
		_, _ = pool.Exec(ctx, `DELETE FROM stock_movements WHERE product_id = $1`, productID)
		_, _ = pool.Exec(ctx, `DELETE FROM stock_entries WHERE product_id = $1`, productID)
		_, _ = pool.Exec(ctx, `DELETE FROM representatives WHERE id = $1`, repID)
		_, _ = pool.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, warehouseID)
		_, _ = pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	})

	// una versión vieja no puede pisar la fila
	err = stock.Save(ctx, &entity.StockEntry{Location: wh, ProductID: productID, Quantity: 1, Version: 1, UpdatedAt: now})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	runner := postgres.NewTxRunner(pool)
	caps := auth.DefaultCapabilities()
	p := auth.Principal{UserID: "u-it", Role: entity.RoleAdmin}

	transfer := custody.NewTransferUseCase(runner, dir, caps, zerolog.Nop())
	_, err = transfer.Transfer(ctx, p, dto.TransferRequest{
		SourceWarehouseID: warehouseID,
		RepresentativeID:  repID,
		Items:             []dto.TransferItem{{ProductID: productID, Quantity: 50}},
	})
	require.NoError(t, err)

	audit := custody.NewAuditUseCase(runner, dir, stock, memory.NewSessionStore(), time.Hour, caps, zerolog.Nop())
	res, err := audit.AuditAndSettle(ctx, p, dto.AuditSettleRequest{
		RepresentativeID:  repID,
		TargetWarehouseID: warehouseID,
		CountedItems:      []dto.CountedItem{{ProductID: productID, Cartons: 2, Units: 3}},
		Payment:           dto.PaymentInfo{Type: "CREDIT"},
		ReturnPolicy:      dto.ReturnPolicyReturn,
	})
	require.NoError(t, err)
	assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("193.50")))

	custodyEntry, err := stock.Get(ctx, entity.CustodyOf(repID), productID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, custodyEntry.Quantity)
	whEntry, err := stock.Get(ctx, wh, productID)
	require.NoError(t, err)
	assert.EqualValues(t, 77, whEntry.Quantity)

	sale, err := postgres.NewSaleRepository(pool).GetByID(ctx, res.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	require.Len(t, sale.Lines, 1)
	assert.True(t, sale.RemainingAmount.Equal(decimal.RequireFromString("193.50")))

	movs, err := postgres.NewMovementRepository(pool).ListByReference(ctx, res.AuditID)
	require.NoError(t, err)
	assert.Len(t, movs, 3)
}
