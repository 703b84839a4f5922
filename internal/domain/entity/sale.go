package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale decimales de los montos persistidos (NUMERIC(18,2)).
const MoneyScale int32 = 2

// PaymentType clasificación del pago de una venta.
type PaymentType string

const (
	PaymentCash    PaymentType = "CASH"
	PaymentCredit  PaymentType = "CREDIT"
	PaymentPartial PaymentType = "PARTIAL"
)

// Valid indica si el tipo de pago es conocido.
func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentCredit || p == PaymentPartial
}

// SaleLine línea de venta inferida por auditoría.
// LineTotal = Cartons*CartonPrice + Units*UnitPrice.
type SaleLine struct {
	ProductID   string
	Quantity    int64
	Cartons     int64
	Units       int64
	CartonPrice decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// SaleTransaction venta registrada al liquidar la custodia de un vendedor.
// RemainingAmount = TotalAmount - PaidAmount.
type SaleTransaction struct {
	ID              string
	SellerID        string
	CustomerID      string // opcional
	AuditID         string
	Lines           []SaleLine
	TotalAmount     decimal.Decimal
	PaymentType     PaymentType
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	CreatedBy       string
	CreatedAt       time.Time
}
