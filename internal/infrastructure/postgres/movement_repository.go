package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos (append-only) sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, reference_id, reference_type, location_kind, location_ref, product_id,
	type, direction, quantity, value, created_by, created_at`

// Create inserta un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementLogEntry) error {
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ReferenceID, m.ReferenceType, string(m.Location.Kind), m.Location.Ref, m.ProductID,
		m.Type, m.Direction, m.Quantity, m.Value, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByLocation movimientos de una ubicación, más recientes primero.
func (r *MovementRepo) ListByLocation(ctx context.Context, loc entity.Location, limit, offset int) ([]*entity.MovementLogEntry, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE location_kind = $1 AND location_ref = $2
		ORDER BY seq DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(loc.Kind), loc.Ref, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return scanMovements(rows)
}

// ListByReference movimientos de una operación en orden de registro.
func (r *MovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.MovementLogEntry, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE reference_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.MovementLogEntry, error) {
	defer rows.Close()
	var list []*entity.MovementLogEntry
	for rows.Next() {
		var (
			m     entity.MovementLogEntry
			kind  string
			value decimal.NullDecimal
		)
		if err := rows.Scan(&m.ID, &m.ReferenceID, &m.ReferenceType, &kind, &m.Location.Ref, &m.ProductID,
			&m.Type, &m.Direction, &m.Quantity, &value, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Location.Kind = entity.LocationKind(kind)
		if value.Valid {
			v := value.Decimal
			m.Value = &v
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
