package custody

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// SettlementInput datos para construir la venta de una liquidación.
type SettlementInput struct {
	SaleID     string
	SellerID   string
	CustomerID string
	AuditID    string
	CreatedBy  string
	Lines      []entity.SaleLine
	Payment    entity.PaymentType
	PaidAmount decimal.Decimal // solo PARTIAL
	At         time.Time
}

// SettlementBuilder convierte líneas vendidas en una SaleTransaction con su clasificación de pago.
type SettlementBuilder struct{}

// Build devuelve nil, nil si no hay líneas: una auditoría sin venta es válida.
//
//	CASH    -> pagado = total, pendiente = 0
//	CREDIT  -> pagado = 0, pendiente = total
//	PARTIAL -> 0 < pagado < total, pendiente = total - pagado
func (SettlementBuilder) Build(in SettlementInput) (*entity.SaleTransaction, error) {
	if len(in.Lines) == 0 {
		return nil, nil
	}
	total := decimal.Zero
	for _, l := range in.Lines {
		total = total.Add(l.LineTotal)
	}

	paid, err := PaidAmount(in.Payment, total, in.PaidAmount)
	if err != nil {
		return nil, err
	}

	lines := make([]entity.SaleLine, len(in.Lines))
	copy(lines, in.Lines)
	return &entity.SaleTransaction{
		ID:              in.SaleID,
		SellerID:        in.SellerID,
		CustomerID:      in.CustomerID,
		AuditID:         in.AuditID,
		Lines:           lines,
		TotalAmount:     total,
		PaymentType:     in.Payment,
		PaidAmount:      paid,
		RemainingAmount: total.Sub(paid),
		CreatedBy:       in.CreatedBy,
		CreatedAt:       in.At,
	}, nil
}

// PaidAmount aplica la regla de pago según el tipo.
func PaidAmount(pt entity.PaymentType, total, requested decimal.Decimal) (decimal.Decimal, error) {
	switch pt {
	case entity.PaymentCash:
		return total, nil
	case entity.PaymentCredit:
		return decimal.Zero, nil
	case entity.PaymentPartial:
		if !requested.IsPositive() || requested.GreaterThanOrEqual(total) {
			return decimal.Zero, domain.Invalid("payment.paid_amount",
				"el pago parcial debe ser mayor que 0 y menor que el total "+total.String())
		}
		if !requested.Equal(requested.Round(entity.MoneyScale)) {
			return decimal.Zero, domain.Invalid("payment.paid_amount", "máximo dos decimales")
		}
		return requested, nil
	}
	return decimal.Zero, domain.Invalid("payment.type", "tipo de pago desconocido: "+string(pt))
}
