package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/infrastructure/redis"
)

func newStore(t *testing.T) *redis.SessionStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	store := redis.NewSessionStore(addr, os.Getenv("REDIS_PASSWORD"), 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		t.Skipf("redis no disponible en %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionStore_GuardaYLee(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	id := fmt.Sprintf("it-%d", time.Now().UnixNano())
	now := time.Now().UTC().Truncate(time.Second)

	session := entity.NewAuditSession(id, "r1", "u1", map[string]entity.BaselineEntry{
		"p1": {Quantity: 50, Version: 3},
	}, now)
	require.NoError(t, store.Save(ctx, session, time.Minute))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.AuditCounting, got.State)
	assert.True(t, got.SnapshotTaken)
	assert.Equal(t, session.Baseline, got.Baseline)
	assert.True(t, got.StartedAt.Equal(now))
}

func TestSessionStore_Expira(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	id := fmt.Sprintf("it-exp-%d", time.Now().UnixNano())

	require.NoError(t, store.Save(ctx, entity.NewAuditSession(id, "r1", "u1", nil, time.Now()), 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_Inexistente(t *testing.T) {
	store := newStore(t)
	got, err := store.Get(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)
}
