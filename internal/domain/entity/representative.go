package entity

import "time"

// Representative es un vendedor de campo. Su custodia es la ubicación CustodyOf(ID).
// PricingTier es política de negocio fija; no se recalcula por venta.
type Representative struct {
	ID          string
	Name        string
	AgencyID    string // vacío = sin agencia asignada
	PricingTier PricingTier
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasAgency true si el vendedor tiene agencia asignada.
func (r *Representative) HasAgency() bool {
	return r != nil && r.AgencyID != ""
}
