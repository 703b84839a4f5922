package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas (cabecera + líneas) sobre PostgreSQL. Create debe correr dentro de una tx.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, seller_id, customer_id, audit_id, total_amount, payment_type,
	paid_amount, remaining_amount, created_by, created_at`

// Create inserta la venta y sus líneas en orden.
func (r *SaleRepo) Create(ctx context.Context, s *entity.SaleTransaction) error {
	_, err := r.q.Exec(ctx, `INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.SellerID, s.CustomerID, s.AuditID, s.TotalAmount, string(s.PaymentType),
		s.PaidAmount, s.RemainingAmount, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for i, l := range s.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (sale_id, line_no, product_id, quantity, cartons, units, carton_price, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			s.ID, i+1, l.ProductID, l.Quantity, l.Cartons, l.Units, l.CartonPrice, l.UnitPrice, l.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con sus líneas. nil, nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.SaleTransaction, error) {
	var s entity.SaleTransaction
	var pt string
	err := r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &s.SellerID, &s.CustomerID, &s.AuditID, &s.TotalAmount, &pt,
		&s.PaidAmount, &s.RemainingAmount, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.PaymentType = entity.PaymentType(pt)
	if s.Lines, err = r.lines(ctx, s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListBySeller ventas de un vendedor, más recientes primero.
func (r *SaleRepo) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.SaleTransaction, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales
		WHERE seller_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, sellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.SaleTransaction
	for rows.Next() {
		var s entity.SaleTransaction
		var pt string
		if err := rows.Scan(&s.ID, &s.SellerID, &s.CustomerID, &s.AuditID, &s.TotalAmount, &pt,
			&s.PaidAmount, &s.RemainingAmount, &s.CreatedBy, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.PaymentType = entity.PaymentType(pt)
		list = append(list, &s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if s.Lines, err = r.lines(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *SaleRepo) lines(ctx context.Context, saleID string) ([]entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, quantity, cartons, units, carton_price, unit_price, line_total
		FROM sale_lines WHERE sale_id = $1 ORDER BY line_no`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var out []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.Cartons, &l.Units, &l.CartonPrice, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
