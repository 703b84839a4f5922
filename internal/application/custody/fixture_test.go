package custody_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/custodia-api/internal/application/auth"
	"github.com/jhoicas/custodia-api/internal/application/custody"
	"github.com/jhoicas/custodia-api/internal/application/dto"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/infrastructure/memory"
)

var (
	admin     = auth.Principal{UserID: "u-admin", Role: entity.RoleAdmin}
	bodeguero = auth.Principal{UserID: "u-bodega", Role: entity.RoleBodeguero}
	contador  = auth.Principal{UserID: "u-conta", Role: entity.RoleContador}
	vendedor  = auth.Principal{UserID: "u-vend", Role: entity.RoleVendedor, RepresentativeID: "r1"}
)

type fixture struct {
	store    *memory.Store
	sessions *memory.SessionStore
	transfer *custody.TransferUseCase
	audit    *custody.AuditUseCase
	query    *custody.QueryUseCase
	adjust   *custody.AdjustUseCase
}

// newFixture: bodega w1 con p1=100 y p2=20; r1 mayorista y r3 detal con agencia, r2 sin agencia.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	sessions := memory.NewSessionStore()

	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID:                   "p1",
		Name:                 "Galleta x12",
		UnitsPerCarton:       12,
		FactoryPrice:         decimal.RequireFromString("80"),
		WholesaleCartonPrice: decimal.RequireFromString("100"),
		WholesaleUnitPrice:   decimal.RequireFromString("8.50"),
		RetailCartonPrice:    decimal.RequireFromString("120"),
		RetailUnitPrice:      decimal.RequireFromString("10.25"),
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID:                   "p2",
		Name:                 "Jugo x6",
		UnitsPerCarton:       6,
		FactoryPrice:         decimal.RequireFromString("20"),
		WholesaleCartonPrice: decimal.RequireFromString("30"),
		WholesaleUnitPrice:   decimal.RequireFromString("5.50"),
		RetailCartonPrice:    decimal.RequireFromString("36"),
		RetailUnitPrice:      decimal.RequireFromString("6.50"),
	}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", AgencyID: "a1", Name: "Principal"}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", AgencyID: "a1", Name: "Norte"}))
	require.NoError(t, store.Representatives().Create(ctx, &entity.Representative{ID: "r1", Name: "Ana", AgencyID: "a1", PricingTier: entity.TierWholesale}))
	require.NoError(t, store.Representatives().Create(ctx, &entity.Representative{ID: "r2", Name: "Luis", PricingTier: entity.TierWholesale}))
	require.NoError(t, store.Representatives().Create(ctx, &entity.Representative{ID: "r3", Name: "Marta", AgencyID: "a1", PricingTier: entity.TierRetail}))

	w1 := entity.WarehouseLocation("w1")
	require.NoError(t, store.Stock().Save(ctx, &entity.StockEntry{Location: w1, ProductID: "p1", Quantity: 100, Version: 1}))
	require.NoError(t, store.Stock().Save(ctx, &entity.StockEntry{Location: w1, ProductID: "p2", Quantity: 20, Version: 1}))

	caps := auth.DefaultCapabilities()
	log := zerolog.Nop()
	dir := store.Directory()
	return &fixture{
		store:    store,
		sessions: sessions,
		transfer: custody.NewTransferUseCase(store, dir, caps, log),
		audit:    custody.NewAuditUseCase(store, dir, store.Stock(), sessions, 30*time.Minute, caps, log),
		query:    custody.NewQueryUseCase(dir, store.Stock(), store.Movements(), store.Sales(), caps),
		adjust:   custody.NewAdjustUseCase(store, dir, caps, log),
	}
}

func (f *fixture) qty(t *testing.T, loc entity.Location, productID string) int64 {
	t.Helper()
	e, err := f.store.Stock().Get(context.Background(), loc, productID)
	require.NoError(t, err)
	return e.Quantity
}

func (f *fixture) give(t *testing.T, repID string, items ...dto.TransferItem) {
	t.Helper()
	_, err := f.transfer.Transfer(context.Background(), bodeguero, dto.TransferRequest{
		SourceWarehouseID: "w1",
		RepresentativeID:  repID,
		Items:             items,
	})
	require.NoError(t, err)
}

func settleReq(repID, policy string, payment dto.PaymentInfo, items ...dto.CountedItem) dto.AuditSettleRequest {
	return dto.AuditSettleRequest{
		RepresentativeID:  repID,
		TargetWarehouseID: "w1",
		CountedItems:      items,
		Payment:           payment,
		ReturnPolicy:      policy,
	}
}

var cash = dto.PaymentInfo{Type: string(entity.PaymentCash)}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
