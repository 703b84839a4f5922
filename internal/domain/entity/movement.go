package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento registrados en el libro de movimientos.
const (
	MovementTypeTransfer   = "TRANSFER"
	MovementTypeReturn     = "RETURN"
	MovementTypeSettlement = "SETTLEMENT"
	MovementTypeAdjustment = "ADJUSTMENT"
)

// Dirección del movimiento respecto a la ubicación.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// Tipos de operación de origen.
const (
	ReferenceTransfer   = "transfer"
	ReferenceAudit      = "audit"
	ReferenceSale       = "sale"
	ReferenceAdjustment = "adjustment"
)

// MovementLogEntry registro inmutable de un cambio de stock. Quantity siempre es positiva;
// Direction indica si entró o salió de Location.
type MovementLogEntry struct {
	ID            string
	ReferenceID   string
	ReferenceType string
	Location      Location
	ProductID     string
	Type          string
	Direction     string
	Quantity      int64
	Value         *decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
}
