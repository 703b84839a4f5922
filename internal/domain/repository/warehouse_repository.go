package repository

import (
	"context"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// WarehouseRepository directorio de bodegas. GetByID devuelve nil, nil si no existe.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	Create(ctx context.Context, warehouse *entity.Warehouse) error
}
