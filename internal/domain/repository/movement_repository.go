package repository

import (
	"context"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// MovementRepository libro de movimientos, solo inserción.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.MovementLogEntry) error
	ListByLocation(ctx context.Context, loc entity.Location, limit, offset int) ([]*entity.MovementLogEntry, error)
	ListByReference(ctx context.Context, referenceID string) ([]*entity.MovementLogEntry, error)
}
