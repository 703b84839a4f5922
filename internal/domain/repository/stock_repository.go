package repository

import (
	"context"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por ubicación+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la fila o una entrada en cero (Version 0) si no existe.
	Get(ctx context.Context, loc entity.Location, productID string) (*entity.StockEntry, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, loc entity.Location, productID string) (*entity.StockEntry, error)
	// Save persiste la entrada; entry.Version debe ser la versión anterior + 1.
	// Devuelve domain.ErrConcurrencyConflict si otra escritura ganó.
	Save(ctx context.Context, entry *entity.StockEntry) error
	ListByLocation(ctx context.Context, loc entity.Location) ([]*entity.StockEntry, error)
}
