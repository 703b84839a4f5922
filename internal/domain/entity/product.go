package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto vendido en cajas (cartons) y unidades sueltas.
// Los precios por unidad se almacenan aparte del precio por caja y no siempre coinciden
// con precio_caja / UnitsPerCarton.
type Product struct {
	ID                   string
	SKU                  string
	Name                 string
	UnitsPerCarton       int64
	FactoryPrice         decimal.Decimal
	WholesaleCartonPrice decimal.Decimal
	RetailCartonPrice    decimal.Decimal
	WholesaleUnitPrice   decimal.Decimal
	RetailUnitPrice      decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PricingTier esquema de precios asignado a un vendedor.
type PricingTier string

const (
	TierWholesale PricingTier = "WHOLESALE"
	TierRetail    PricingTier = "RETAIL"
)

// Valid indica si el tier es conocido.
func (t PricingTier) Valid() bool {
	return t == TierWholesale || t == TierRetail
}
