package repository

import (
	"context"
	"time"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// AuditSessionStore guarda sesiones de conteo entre el inicio y la liquidación.
// Get devuelve nil, nil si la sesión no existe o expiró.
type AuditSessionStore interface {
	Save(ctx context.Context, session *entity.AuditSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.AuditSession, error)
}
