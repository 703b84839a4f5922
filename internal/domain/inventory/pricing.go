package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// PriceBreakdown resultado de valorizar una cantidad en cajas completas + unidades sueltas.
type PriceBreakdown struct {
	FullCartons int64
	LooseUnits  int64
	CartonPrice decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// CartonPrice precio por caja según el tier.
func CartonPrice(p *entity.Product, tier entity.PricingTier) (decimal.Decimal, error) {
	switch tier {
	case entity.TierWholesale:
		return p.WholesaleCartonPrice, nil
	case entity.TierRetail:
		return p.RetailCartonPrice, nil
	}
	return decimal.Zero, domain.Invalid("pricing_tier", "tier desconocido: "+string(tier))
}

// UnitPrice precio por unidad almacenado según el tier (no se deriva del precio por caja).
func UnitPrice(p *entity.Product, tier entity.PricingTier) (decimal.Decimal, error) {
	switch tier {
	case entity.TierWholesale:
		return p.WholesaleUnitPrice, nil
	case entity.TierRetail:
		return p.RetailUnitPrice, nil
	}
	return decimal.Zero, domain.Invalid("pricing_tier", "tier desconocido: "+string(tier))
}

// Resolve valoriza quantity unidades de un producto:
//
//	total = floor(q/upc) * precioCaja(tier) + (q mod upc) * precioUnidad(tier)
//
// Se usa el precio unitario almacenado aunque difiera de precioCaja/upc.
func Resolve(p *entity.Product, tier entity.PricingTier, quantity int64) (PriceBreakdown, error) {
	if p == nil {
		return PriceBreakdown{}, domain.Invalid("product", "producto requerido")
	}
	if quantity < 0 {
		return PriceBreakdown{}, domain.Invalid("quantity", "la cantidad no puede ser negativa")
	}
	if p.UnitsPerCarton < 1 {
		return PriceBreakdown{}, domain.Invalid("units_per_carton", "debe ser al menos 1 para "+p.ID)
	}
	cartonPrice, err := CartonPrice(p, tier)
	if err != nil {
		return PriceBreakdown{}, err
	}
	unitPrice, err := UnitPrice(p, tier)
	if err != nil {
		return PriceBreakdown{}, err
	}

	full, loose := SplitCartons(quantity, p.UnitsPerCarton)
	total := decimal.NewFromInt(full).Mul(cartonPrice).Add(decimal.NewFromInt(loose).Mul(unitPrice))
	return PriceBreakdown{
		FullCartons: full,
		LooseUnits:  loose,
		CartonPrice: cartonPrice,
		UnitPrice:   unitPrice,
		Total:       total,
	}, nil
}

// SplitCartons separa una cantidad en cajas completas y unidades sueltas.
func SplitCartons(quantity, unitsPerCarton int64) (cartons, units int64) {
	return quantity / unitsPerCarton, quantity % unitsPerCarton
}
