package custody

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

// TransactionLedger agrega entradas al libro de movimientos de una operación.
// Todas las entradas comparten referencia, usuario y fecha.
type TransactionLedger struct {
	repo          repository.MovementRepository
	referenceType string
	referenceID   string
	createdBy     string
	at            time.Time
	count         int
}

// NewTransactionLedger construye el libro para una operación concreta.
func NewTransactionLedger(repo repository.MovementRepository, referenceType, referenceID, createdBy string, at time.Time) *TransactionLedger {
	return &TransactionLedger{
		repo:          repo,
		referenceType: referenceType,
		referenceID:   referenceID,
		createdBy:     createdBy,
		at:            at,
	}
}

// Append registra un movimiento. value es opcional.
func (j *TransactionLedger) Append(ctx context.Context, loc entity.Location, productID, movType, direction string, quantity int64, value *decimal.Decimal) error {
	mov := &entity.MovementLogEntry{
		ID:            uuid.New().String(),
		ReferenceID:   j.referenceID,
		ReferenceType: j.referenceType,
		Location:      loc,
		ProductID:     productID,
		Type:          movType,
		Direction:     direction,
		Quantity:      quantity,
		Value:         value,
		CreatedBy:     j.createdBy,
		CreatedAt:     j.at,
	}
	if err := j.repo.Create(ctx, mov); err != nil {
		return err
	}
	j.count++
	return nil
}

// Count número de movimientos registrados.
func (j *TransactionLedger) Count() int { return j.count }
