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

var (
	_ repository.WarehouseRepository      = (*WarehouseRepo)(nil)
	_ repository.RepresentativeRepository = (*RepresentativeRepo)(nil)
)

// WarehouseRepo bodegas sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO warehouses (id, agency_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		w.ID, w.AgencyID, w.Name, w.Address, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Invalid("id", "bodega duplicada "+w.ID)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega. nil, nil si no existe.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, `
		SELECT id, agency_id, name, address, created_at, updated_at
		FROM warehouses WHERE id = $1`, id).Scan(
		&w.ID, &w.AgencyID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// RepresentativeRepo vendedores sobre PostgreSQL.
type RepresentativeRepo struct {
	q Querier
}

// NewRepresentativeRepository construye el adaptador de vendedores.
func NewRepresentativeRepository(q Querier) *RepresentativeRepo {
	return &RepresentativeRepo{q: q}
}

// Create persiste un vendedor.
func (r *RepresentativeRepo) Create(ctx context.Context, rep *entity.Representative) error {
	if !rep.PricingTier.Valid() {
		return domain.Invalid("pricing_tier", "debe ser WHOLESALE o RETAIL")
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO representatives (id, name, agency_id, pricing_tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rep.ID, rep.Name, rep.AgencyID, string(rep.PricingTier), rep.CreatedAt, rep.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Invalid("id", "vendedor duplicado "+rep.ID)
		}
		return fmt.Errorf("insert representative: %w", err)
	}
	return nil
}

// GetByID obtiene un vendedor. nil, nil si no existe.
func (r *RepresentativeRepo) GetByID(ctx context.Context, id string) (*entity.Representative, error) {
	var rep entity.Representative
	var tier string
	err := r.q.QueryRow(ctx, `
		SELECT id, name, agency_id, pricing_tier, created_at, updated_at
		FROM representatives WHERE id = $1`, id).Scan(
		&rep.ID, &rep.Name, &rep.AgencyID, &tier, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get representative: %w", err)
	}
	rep.PricingTier = entity.PricingTier(tier)
	return &rep, nil
}
