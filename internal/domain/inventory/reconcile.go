package inventory

import (
	"math"

	"github.com/jhoicas/custodia-api/internal/domain"
)

// Count conteo físico de un producto frente a su custodia registrada.
type Count struct {
	ProductID      string
	UnitsPerCarton int64
	Baseline       int64 // cantidad en custodia antes del conteo
	Cartons        int64
	Units          int64
}

// Reconciled resultado por producto: Sold = max(0, Baseline - Actual).
type Reconciled struct {
	ProductID string
	Baseline  int64
	Actual    int64
	Sold      int64
}

// ActualUnits convierte cajas + unidades contadas a unidades. Si el resultado no cabe
// en int64 satura en math.MaxInt64 (siempre mayor que cualquier custodia).
// Requiere cartons, units >= 0 y unitsPerCarton >= 1.
func ActualUnits(cartons, units, unitsPerCarton int64) int64 {
	if cartons > (math.MaxInt64-units)/unitsPerCarton {
		return math.MaxInt64
	}
	return cartons*unitsPerCarton + units
}

// Reconcile calcula lo vendido por producto. Si algún conteo supera la custodia
// devuelve *domain.ComputationAmbiguityError con todos los productos afectados.
func Reconcile(counts []Count) ([]Reconciled, error) {
	out := make([]Reconciled, 0, len(counts))
	var ambiguous []domain.AmbiguousCount
	for _, c := range counts {
		if c.UnitsPerCarton < 1 {
			return nil, domain.Invalid("units_per_carton", "debe ser al menos 1 para "+c.ProductID)
		}
		if c.Cartons < 0 || c.Units < 0 {
			return nil, domain.Invalid("counted_items", "conteo negativo para "+c.ProductID)
		}
		actual := ActualUnits(c.Cartons, c.Units, c.UnitsPerCarton)
		if actual > c.Baseline {
			ambiguous = append(ambiguous, domain.AmbiguousCount{ProductID: c.ProductID, Baseline: c.Baseline, Actual: actual})
			continue
		}
		out = append(out, Reconciled{
			ProductID: c.ProductID,
			Baseline:  c.Baseline,
			Actual:    actual,
			Sold:      c.Baseline - actual,
		})
	}
	if len(ambiguous) > 0 {
		return nil, &domain.ComputationAmbiguityError{Items: ambiguous}
	}
	return out, nil
}
