package dto

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// TransferItem producto y cantidad (en unidades) a trasladar.
type TransferItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// TransferRequest body para POST /api/custody/transfers.
type TransferRequest struct {
	SourceWarehouseID string         `json:"source_warehouse_id"`
	RepresentativeID  string         `json:"representative_id"`
	Items             []TransferItem `json:"items"`
}

// Validate valida la solicitud antes de cualquier lógica de dominio.
func (r *TransferRequest) Validate() error {
	if strings.TrimSpace(r.SourceWarehouseID) == "" {
		return domain.Invalid("source_warehouse_id", "requerido")
	}
	if strings.TrimSpace(r.RepresentativeID) == "" {
		return domain.Invalid("representative_id", "requerido")
	}
	if len(r.Items) == 0 {
		return domain.Invalid("items", "al menos un producto")
	}
	totals := make(map[string]int64, len(r.Items))
	for _, it := range r.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return domain.Invalid("items.product_id", "requerido")
		}
		if it.Quantity <= 0 {
			return domain.Invalid("items.quantity", "debe ser mayor que cero para "+it.ProductID)
		}
		// líneas repetidas se suman en Merged; el total debe caber en int64
		if totals[it.ProductID] > math.MaxInt64-it.Quantity {
			return domain.Invalid("items.quantity", "cantidad total fuera de rango para "+it.ProductID)
		}
		totals[it.ProductID] += it.Quantity
	}
	return nil
}

// Merged agrupa líneas repetidas del mismo producto conservando el orden de aparición.
// Llamar después de Validate, que descarta totales que desbordan.
func (r *TransferRequest) Merged() []TransferItem {
	idx := make(map[string]int, len(r.Items))
	out := make([]TransferItem, 0, len(r.Items))
	for _, it := range r.Items {
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

// TransferResponse resultado de un traslado a custodia.
type TransferResponse struct {
	TransferID        string         `json:"transfer_id"`
	SourceWarehouseID string         `json:"source_warehouse_id"`
	RepresentativeID  string         `json:"representative_id"`
	Items             []TransferItem `json:"items"`
	TotalUnits        int64          `json:"total_units"`
}

// BeginAuditRequest body para POST /api/custody/audits.
type BeginAuditRequest struct {
	RepresentativeID string `json:"representative_id"`
}

// AuditSessionResponse sesión de conteo con la foto de custodia.
type AuditSessionResponse struct {
	ID               string                          `json:"id"`
	RepresentativeID string                          `json:"representative_id"`
	State            string                          `json:"state"`
	Baseline         map[string]entity.BaselineEntry `json:"baseline"`
	TransactionID    string                          `json:"transaction_id,omitempty"`
	FailureReason    string                          `json:"failure_reason,omitempty"`
	StartedAt        time.Time                       `json:"started_at"`
}

// CountedItem conteo físico de un producto. ExpectedVersion opcional: versión de la custodia
// leída antes de contar; si no viene se usa la de la sesión.
type CountedItem struct {
	ProductID       string `json:"product_id"`
	Cartons         int64  `json:"cartons"`
	Units           int64  `json:"units"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// PaymentInfo clasificación del pago. PaidAmount solo aplica a PARTIAL.
type PaymentInfo struct {
	Type       string          `json:"type"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// Políticas de devolución.
const (
	ReturnPolicyKeep   = "KEEP"
	ReturnPolicyReturn = "RETURN"
)

// AuditSettleRequest body para POST /api/custody/settlements.
type AuditSettleRequest struct {
	RepresentativeID  string        `json:"representative_id"`
	TargetWarehouseID string        `json:"target_warehouse_id"`
	SessionID         string        `json:"session_id,omitempty"`
	CustomerID        string        `json:"customer_id,omitempty"`
	CountedItems      []CountedItem `json:"counted_items"`
	Payment           PaymentInfo   `json:"payment"`
	ReturnPolicy      string        `json:"return_policy"`
}

// Validate valida la solicitud antes de cualquier lógica de dominio.
func (r *AuditSettleRequest) Validate() error {
	if strings.TrimSpace(r.RepresentativeID) == "" {
		return domain.Invalid("representative_id", "requerido")
	}
	switch r.ReturnPolicy {
	case ReturnPolicyKeep:
	case ReturnPolicyReturn:
		if strings.TrimSpace(r.TargetWarehouseID) == "" {
			return domain.Invalid("target_warehouse_id", "requerido con política RETURN")
		}
	default:
		return domain.Invalid("return_policy", "debe ser KEEP o RETURN")
	}
	if !entity.PaymentType(r.Payment.Type).Valid() {
		return domain.Invalid("payment.type", "debe ser CASH, CREDIT o PARTIAL")
	}
	if entity.PaymentType(r.Payment.Type) == entity.PaymentPartial {
		if !r.Payment.PaidAmount.IsPositive() {
			return domain.Invalid("payment.paid_amount", "debe ser mayor que cero en pago parcial")
		}
		if !r.Payment.PaidAmount.Equal(r.Payment.PaidAmount.Round(entity.MoneyScale)) {
			return domain.Invalid("payment.paid_amount", "máximo dos decimales")
		}
	}
	if len(r.CountedItems) == 0 {
		return domain.Invalid("counted_items", "al menos un producto")
	}
	seen := make(map[string]struct{}, len(r.CountedItems))
	for _, it := range r.CountedItems {
		if strings.TrimSpace(it.ProductID) == "" {
			return domain.Invalid("counted_items.product_id", "requerido")
		}
		if _, dup := seen[it.ProductID]; dup {
			return domain.Invalid("counted_items", "producto repetido "+it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
		if it.Cartons < 0 || it.Units < 0 {
			return domain.Invalid("counted_items", "cajas y unidades no pueden ser negativas para "+it.ProductID)
		}
	}
	return nil
}

// SoldLineResponse línea vendida inferida.
type SoldLineResponse struct {
	ProductID   string          `json:"product_id"`
	Baseline    int64           `json:"baseline"`
	Actual      int64           `json:"actual"`
	Quantity    int64           `json:"quantity"`
	Cartons     int64           `json:"cartons"`
	Units       int64           `json:"units"`
	CartonPrice decimal.Decimal `json:"carton_price"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// AuditSettleResponse resultado de auditar y liquidar una custodia.
// TransactionID vacío cuando no hubo venta.
type AuditSettleResponse struct {
	AuditID         string             `json:"audit_id"`
	State           string             `json:"state"`
	TransactionID   string             `json:"transaction_id,omitempty"`
	SoldLines       []SoldLineResponse `json:"sold_lines"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	PaymentType     string             `json:"payment_type,omitempty"`
	PaidAmount      decimal.Decimal    `json:"paid_amount"`
	RemainingAmount decimal.Decimal    `json:"remaining_amount"`
	ReturnPolicy    string             `json:"return_policy"`
}

// AdjustStockRequest body para POST /api/stock/adjustments (corrección administrativa).
type AdjustStockRequest struct {
	LocationKind string `json:"location_kind"`
	LocationRef  string `json:"location_ref"`
	ProductID    string `json:"product_id"`
	Quantity     int64  `json:"quantity"`
	Reason       string `json:"reason"`
}

// Validate valida la solicitud.
func (r *AdjustStockRequest) Validate() error {
	loc := entity.Location{Kind: entity.LocationKind(r.LocationKind), Ref: r.LocationRef}
	if !loc.Valid() {
		return domain.Invalid("location", "ubicación inválida")
	}
	if strings.TrimSpace(r.ProductID) == "" {
		return domain.Invalid("product_id", "requerido")
	}
	if r.Quantity < 0 {
		return domain.Invalid("quantity", "no puede ser negativa")
	}
	return nil
}

// StockEntryResponse cantidad de un producto en una ubicación.
type StockEntryResponse struct {
	LocationKind string    `json:"location_kind"`
	LocationRef  string    `json:"location_ref"`
	ProductID    string    `json:"product_id"`
	Quantity     int64     `json:"quantity"`
	Cartons      int64     `json:"cartons"`
	Units        int64     `json:"units"`
	Version      int64     `json:"version"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MovementResponse entrada del libro de movimientos.
type MovementResponse struct {
	ID            string           `json:"id"`
	ReferenceID   string           `json:"reference_id"`
	ReferenceType string           `json:"reference_type"`
	LocationKind  string           `json:"location_kind"`
	LocationRef   string           `json:"location_ref"`
	ProductID     string           `json:"product_id"`
	Type          string           `json:"type"`
	Direction     string           `json:"direction"`
	Quantity      int64            `json:"quantity"`
	Value         *decimal.Decimal `json:"value,omitempty"`
	CreatedBy     string           `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID              string             `json:"id"`
	SellerID        string             `json:"seller_id"`
	CustomerID      string             `json:"customer_id,omitempty"`
	AuditID         string             `json:"audit_id"`
	Lines           []SoldLineResponse `json:"lines"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	PaymentType     string             `json:"payment_type"`
	PaidAmount      decimal.Decimal    `json:"paid_amount"`
	RemainingAmount decimal.Decimal    `json:"remaining_amount"`
	CreatedAt       time.Time          `json:"created_at"`
}
