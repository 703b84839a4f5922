package repository

import (
	"context"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// ProductRepository directorio de productos. GetByID devuelve nil, nil si no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
}
