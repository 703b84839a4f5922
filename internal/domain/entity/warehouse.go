package entity

import "time"

// Warehouse representa una bodega física de una agencia.
type Warehouse struct {
	ID        string
	AgencyID  string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location devuelve la ubicación de stock de la bodega.
func (w *Warehouse) Location() Location {
	return WarehouseLocation(w.ID)
}
