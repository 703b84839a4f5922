package custody

import (
	"context"

	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Stock     repository.StockRepository
	Movements repository.MovementRepository
	Sales     repository.SaleRepository
	Products  repository.ProductRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback: ningún ajuste, movimiento ni venta queda persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

// Directory colaboradores de solo lectura (productos, vendedores, bodegas).
type Directory struct {
	Products        repository.ProductRepository
	Representatives repository.RepresentativeRepository
	Warehouses      repository.WarehouseRepository
}
