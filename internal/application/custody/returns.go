package custody

import (
	"context"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/inventory"
)

// ReturnPolicy destino del stock contado al liquidar.
type ReturnPolicy string

const (
	PolicyKeep   ReturnPolicy = "KEEP"
	PolicyReturn ReturnPolicy = "RETURN"
)

// ReturnRouter dispone del stock contado: lo deja con el vendedor (KEEP) o lo devuelve a bodega (RETURN).
// Corre dentro de la misma tx que la conciliación y la venta.
type ReturnRouter struct{}

// Route aplica la política a un producto conciliado. La custodia solo puede bajar.
func (ReturnRouter) Route(
	ctx context.Context,
	ledger *StockLedger,
	journal *TransactionLedger,
	policy ReturnPolicy,
	custody entity.Location,
	warehouse *entity.Location,
	r inventory.Reconciled,
) error {
	if r.Actual > r.Baseline {
		return &domain.ComputationAmbiguityError{Items: []domain.AmbiguousCount{
			{ProductID: r.ProductID, Baseline: r.Baseline, Actual: r.Actual},
		}}
	}
	if r.Actual == 0 {
		_, err := ledger.Set(ctx, custody, r.ProductID, 0)
		return err
	}

	switch policy {
	case PolicyKeep:
		// lo contado queda como nueva base para la próxima auditoría
		_, err := ledger.Set(ctx, custody, r.ProductID, r.Actual)
		return err
	case PolicyReturn:
		if warehouse == nil {
			return domain.Invalid("target_warehouse_id", "requerido con política RETURN")
		}
		if _, err := ledger.Adjust(ctx, *warehouse, r.ProductID, r.Actual); err != nil {
			return err
		}
		if err := journal.Append(ctx, *warehouse, r.ProductID, entity.MovementTypeReturn, entity.DirectionIn, r.Actual, nil); err != nil {
			return err
		}
		if err := journal.Append(ctx, custody, r.ProductID, entity.MovementTypeReturn, entity.DirectionOut, r.Actual, nil); err != nil {
			return err
		}
		_, err := ledger.Set(ctx, custody, r.ProductID, 0)
		return err
	}
	return domain.Invalid("return_policy", "debe ser KEEP o RETURN")
}
