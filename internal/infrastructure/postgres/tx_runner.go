package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/custodia-api/internal/application/custody"
)

// Ensure TxRunner implements custody.TxRunner.
var _ custody.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos custody.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := custody.TxRepos{
		Stock:     NewStockRepository(tx),
		Movements: NewMovementRepository(tx),
		Sales:     NewSaleRepository(tx),
		Products:  NewProductRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Directory directorios de solo lectura sobre el pool.
func Directory(pool *pgxpool.Pool) custody.Directory {
	return custody.Directory{
		Products:        NewProductRepository(pool),
		Representatives: NewRepresentativeRepository(pool),
		Warehouses:      NewWarehouseRepository(pool),
	}
}
