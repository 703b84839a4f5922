// Package redis guarda las sesiones de auditoría en Redis con expiración.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

var _ repository.AuditSessionStore = (*SessionStore)(nil)

const keyPrefix = "custody:audit:"

// SessionStore sesiones de conteo serializadas en JSON, una llave por sesión.
type SessionStore struct {
	client *goredis.Client
}

// NewSessionStore abre el cliente. No verifica la conexión; usar Ping.
func NewSessionStore(addr, password string, db int) *SessionStore {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &SessionStore{client: client}
}

// Ping verifica que Redis responda.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

// Save guarda la sesión. ttl <= 0 = sin expiración.
func (s *SessionStore) Save(ctx context.Context, session *entity.AuditSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, keyPrefix+session.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set sesión: %w", err)
	}
	return nil
}

// Get devuelve nil, nil si la sesión no existe o expiró.
func (s *SessionStore) Get(ctx context.Context, id string) (*entity.AuditSession, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get sesión: %w", err)
	}
	var session entity.AuditSession
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
