package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

var _ repository.AuditSessionStore = (*SessionStore)(nil)

type sessionItem struct {
	data      []byte
	expiresAt time.Time // cero = sin expiración
}

// SessionStore sesiones de auditoría en memoria con expiración, usado cuando no hay Redis.
// Guarda el JSON para que el llamador nunca comparta el puntero almacenado.
type SessionStore struct {
	mu    sync.Mutex
	items map[string]sessionItem
	now   func() time.Time
}

// NewSessionStore crea el store.
func NewSessionStore() *SessionStore {
	return &SessionStore{items: map[string]sessionItem{}, now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, session *entity.AuditSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	item := sessionItem{data: data}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[session.ID] = item
	s.mu.Unlock()
	return nil
}

// Get devuelve nil, nil si no existe o expiró.
func (s *SessionStore) Get(ctx context.Context, id string) (*entity.AuditSession, error) {
	s.mu.Lock()
	item, ok := s.items[id]
	if ok && !item.expiresAt.IsZero() && s.now().After(item.expiresAt) {
		delete(s.items, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var out entity.AuditSession
	if err := json.Unmarshal(item.data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
