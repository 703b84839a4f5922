package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/custodia-api/internal/application/custody"
	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

func TestRun_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	loc := entity.WarehouseLocation("w1")

	boom := errors.New("boom")
	err := s.Run(ctx, func(ctx context.Context, repos custody.TxRepos) error {
		require.NoError(t, repos.Stock.Save(ctx, &entity.StockEntry{Location: loc, ProductID: "p1", Quantity: 10, Version: 1}))
		require.NoError(t, repos.Movements.Create(ctx, &entity.MovementLogEntry{ID: "m1", Location: loc, ProductID: "p1", Quantity: 10}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	entry, err := s.Stock().Get(ctx, loc, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, entry.Quantity)
	assert.EqualValues(t, 0, entry.Version)

	movs, err := s.Movements().ListByLocation(ctx, loc, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	loc := entity.CustodyOf("r1")

	err := s.Run(ctx, func(ctx context.Context, repos custody.TxRepos) error {
		return repos.Stock.Save(ctx, &entity.StockEntry{Location: loc, ProductID: "p1", Quantity: 7, Version: 1})
	})
	require.NoError(t, err)

	list, err := s.Stock().ListByLocation(ctx, loc)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 7, list[0].Quantity)
}

func TestStockSave_VersionDesactualizada(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	loc := entity.WarehouseLocation("w1")
	repo := s.Stock()

	require.NoError(t, repo.Save(ctx, &entity.StockEntry{Location: loc, ProductID: "p1", Quantity: 5, Version: 1}))
	err := repo.Save(ctx, &entity.StockEntry{Location: loc, ProductID: "p1", Quantity: 3, Version: 1})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	var conflict *domain.ConcurrencyConflictError
	require.ErrorAs(t, err, &conflict)
	assert.EqualValues(t, 1, conflict.Found)
}

func TestStockGet_DevuelveCopia(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	loc := entity.WarehouseLocation("w1")
	require.NoError(t, s.Stock().Save(ctx, &entity.StockEntry{Location: loc, ProductID: "p1", Quantity: 5, Version: 1}))

	e, err := s.Stock().Get(ctx, loc, "p1")
	require.NoError(t, err)
	e.Quantity = 99

	again, err := s.Stock().Get(ctx, loc, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, again.Quantity)
}

func TestMovements_OrdenYPaginacion(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	loc := entity.WarehouseLocation("w1")
	repo := s.Movements()
	for _, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, repo.Create(ctx, &entity.MovementLogEntry{ID: id, ReferenceID: "ref", Location: loc, ProductID: "p1", Quantity: 1}))
	}
	require.NoError(t, repo.Create(ctx, &entity.MovementLogEntry{ID: "otro", ReferenceID: "x", Location: entity.CustodyOf("r1"), ProductID: "p1", Quantity: 1}))

	page, err := repo.ListByLocation(ctx, loc, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "m3", page[0].ID)
	assert.Equal(t, "m2", page[1].ID)

	page, err = repo.ListByLocation(ctx, loc, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "m1", page[0].ID)

	byRef, err := repo.ListByReference(ctx, "ref")
	require.NoError(t, err)
	require.Len(t, byRef, 3)
	assert.Equal(t, "m1", byRef[0].ID)

	err = repo.Create(ctx, &entity.MovementLogEntry{ID: "cero", Location: loc, ProductID: "p1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUsers_FindByEmailSinDistinguirMayusculas(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Email: "Ana@Example.com", Role: entity.RoleAdmin}))

	u, err := s.Users().FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	missing, err := s.Users().FindByEmail(ctx, "nadie@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, s.Users().Create(ctx, &entity.User{ID: "u2", Email: "ana@example.com"}))
}

func TestSessionStore_Expira(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	session := entity.NewAuditSession("a1", "r1", "u1", map[string]entity.BaselineEntry{"p1": {Quantity: 5, Version: 2}}, now)
	require.NoError(t, store.Save(ctx, session, time.Minute))

	got, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.SnapshotTaken)
	assert.EqualValues(t, 2, got.Baseline["p1"].Version)

	// la copia devuelta no altera lo guardado
	got.State = entity.AuditAborted
	again, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, entity.AuditCounting, again.State)

	now = now.Add(2 * time.Minute)
	expired, err := store.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, expired)
}
