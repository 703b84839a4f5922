package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock de un producto en una ubicación (cero si no hay fila).
func (r *StockRepo) Get(ctx context.Context, loc entity.Location, productID string) (*entity.StockEntry, error) {
	query := `
		SELECT quantity, version, updated_at
		FROM stock_entries WHERE location_kind = $1 AND location_ref = $2 AND product_id = $3`
	return r.scanOne(ctx, query, loc, productID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
// Si la fila no existe no hay nada que bloquear; Save detecta la carrera por la versión.
func (r *StockRepo) GetForUpdate(ctx context.Context, loc entity.Location, productID string) (*entity.StockEntry, error) {
	query := `
		SELECT quantity, version, updated_at
		FROM stock_entries WHERE location_kind = $1 AND location_ref = $2 AND product_id = $3
		FOR UPDATE`
	return r.scanOne(ctx, query, loc, productID)
}

func (r *StockRepo) scanOne(ctx context.Context, query string, loc entity.Location, productID string) (*entity.StockEntry, error) {
	s := entity.StockEntry{Location: loc, ProductID: productID}
	err := r.q.QueryRow(ctx, query, string(loc.Kind), loc.Ref, productID).Scan(&s.Quantity, &s.Version, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockEntry{Location: loc, ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Save inserta o actualiza la fila solo si la versión guardada es entry.Version-1.
func (r *StockRepo) Save(ctx context.Context, entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (location_kind, location_ref, product_id, quantity, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (location_kind, location_ref, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, version = EXCLUDED.version, updated_at = EXCLUDED.updated_at
		WHERE stock_entries.version = EXCLUDED.version - 1`
	cmd, err := r.q.Exec(ctx, query,
		string(entry.Location.Kind), entry.Location.Ref, entry.ProductID,
		entry.Quantity, entry.Version, entry.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConcurrencyConflictError{ProductID: entry.ProductID, Expected: entry.Version - 1}
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		current, err := r.Get(ctx, entry.Location, entry.ProductID)
		if err != nil {
			return err
		}
		return &domain.ConcurrencyConflictError{ProductID: entry.ProductID, Expected: entry.Version - 1, Found: current.Version}
	}
	return nil
}

// ListByLocation lista el stock de una ubicación ordenado por producto.
func (r *StockRepo) ListByLocation(ctx context.Context, loc entity.Location) ([]*entity.StockEntry, error) {
	query := `
		SELECT product_id, quantity, version, updated_at
		FROM stock_entries WHERE location_kind = $1 AND location_ref = $2
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, string(loc.Kind), loc.Ref)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		s := entity.StockEntry{Location: loc}
		if err := rows.Scan(&s.ProductID, &s.Quantity, &s.Version, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
