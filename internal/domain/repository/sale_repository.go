package repository

import (
	"context"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// SaleRepository persiste ventas con sus líneas (cabecera + detalle en la misma tx).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.SaleTransaction) error
	GetByID(ctx context.Context, id string) (*entity.SaleTransaction, error)
	ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.SaleTransaction, error)
}
