package entity

import "time"

// StockEntry es la cantidad de un producto en una ubicación (bodega o custodia).
// Version aumenta en cada escritura; las auditorías la usan para detectar cambios concurrentes.
type StockEntry struct {
	Location  Location
	ProductID string
	Quantity  int64
	Version   int64
	UpdatedAt time.Time
}
