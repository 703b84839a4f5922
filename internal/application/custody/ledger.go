package custody

import (
	"context"
	"time"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

// StockLedger contadores (ubicación, producto) sobre un StockRepository transaccional.
// Ninguna cantidad queda negativa; cada escritura aumenta la versión de la fila.
type StockLedger struct {
	repo repository.StockRepository
	now  func() time.Time
}

// NewStockLedger construye el ledger sobre el repositorio de la tx.
func NewStockLedger(repo repository.StockRepository, now func() time.Time) *StockLedger {
	if now == nil {
		now = time.Now
	}
	return &StockLedger{repo: repo, now: now}
}

// Get cantidad actual (0 si no hay fila).
func (l *StockLedger) Get(ctx context.Context, loc entity.Location, productID string) (int64, error) {
	entry, err := l.repo.Get(ctx, loc, productID)
	if err != nil {
		return 0, err
	}
	return entry.Quantity, nil
}

// Lock obtiene la fila bloqueada para update.
func (l *StockLedger) Lock(ctx context.Context, loc entity.Location, productID string) (*entity.StockEntry, error) {
	return l.repo.GetForUpdate(ctx, loc, productID)
}

// Adjust suma delta a la cantidad. InsufficientStockError si el resultado sería negativo.
func (l *StockLedger) Adjust(ctx context.Context, loc entity.Location, productID string, delta int64) (*entity.StockEntry, error) {
	entry, err := l.repo.GetForUpdate(ctx, loc, productID)
	if err != nil {
		return nil, err
	}
	next := entry.Quantity + delta
	if next < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Location:  loc.Key(),
			Available: entry.Quantity,
			Requested: -delta,
		}
	}
	return l.write(ctx, entry, next)
}

// Set sobrescribe la cantidad. Solo para auditorías y correcciones administrativas.
func (l *StockLedger) Set(ctx context.Context, loc entity.Location, productID string, quantity int64) (*entity.StockEntry, error) {
	if quantity < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	entry, err := l.repo.GetForUpdate(ctx, loc, productID)
	if err != nil {
		return nil, err
	}
	return l.write(ctx, entry, quantity)
}

func (l *StockLedger) write(ctx context.Context, entry *entity.StockEntry, quantity int64) (*entity.StockEntry, error) {
	entry.Quantity = quantity
	entry.Version++
	entry.UpdatedAt = l.now()
	if err := l.repo.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
