package repository

import (
	"context"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// RepresentativeRepository directorio de vendedores. GetByID devuelve nil, nil si no existe.
type RepresentativeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Representative, error)
	Create(ctx context.Context, rep *entity.Representative) error
}
