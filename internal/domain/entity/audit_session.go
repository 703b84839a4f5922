package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/custodia-api/internal/domain"
)

// AuditState estado de una sesión de auditoría de custodia.
type AuditState string

const (
	AuditCounting   AuditState = "COUNTING"
	AuditReconciled AuditState = "RECONCILED"
	AuditCommitted  AuditState = "COMMITTED"
	AuditAborted    AuditState = "ABORTED"
)

// BaselineEntry cantidad y versión de custodia tomadas al iniciar el conteo.
type BaselineEntry struct {
	Quantity int64 `json:"quantity"`
	Version  int64 `json:"version"`
}

// AuditSession sesión de conteo: COUNTING -> RECONCILED -> COMMITTED, o ABORTED.
// COMMITTED y ABORTED son terminales.
type AuditSession struct {
	ID               string                   `json:"id"`
	RepresentativeID string                   `json:"representative_id"`
	State            AuditState               `json:"state"`
	Baseline         map[string]BaselineEntry `json:"baseline"` // productID -> baseline
	SnapshotTaken    bool                     `json:"snapshot_taken"`
	TransactionID    string                   `json:"transaction_id,omitempty"`
	FailureReason    string                   `json:"failure_reason,omitempty"`
	StartedBy        string                   `json:"started_by"`
	StartedAt        time.Time                `json:"started_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// NewAuditSession crea una sesión en estado COUNTING. baseline nil = sesión sin foto de custodia.
func NewAuditSession(id, representativeID, startedBy string, baseline map[string]BaselineEntry, now time.Time) *AuditSession {
	snapshot := baseline != nil
	if baseline == nil {
		baseline = map[string]BaselineEntry{}
	}
	return &AuditSession{
		ID:               id,
		RepresentativeID: representativeID,
		State:            AuditCounting,
		Baseline:         baseline,
		SnapshotTaken:    snapshot,
		StartedBy:        startedBy,
		StartedAt:        now,
		UpdatedAt:        now,
	}
}

// ExpectedVersion versión de custodia esperada para el producto. Sin foto no hay expectativa;
// un producto ausente de la foto no tenía fila (versión 0).
func (s *AuditSession) ExpectedVersion(productID string) (int64, bool) {
	if !s.SnapshotTaken {
		return 0, false
	}
	return s.Baseline[productID].Version, true
}

// Terminal indica si la sesión ya no admite transiciones.
func (s *AuditSession) Terminal() bool {
	return s.State == AuditCommitted || s.State == AuditAborted
}

// MarkReconciled COUNTING -> RECONCILED.
func (s *AuditSession) MarkReconciled(now time.Time) error {
	if s.State != AuditCounting {
		return s.transitionError(AuditReconciled)
	}
	s.State = AuditReconciled
	s.UpdatedAt = now
	return nil
}

// MarkCommitted RECONCILED -> COMMITTED. transactionID vacío si fue auditoría sin venta.
func (s *AuditSession) MarkCommitted(transactionID string, now time.Time) error {
	if s.State != AuditReconciled {
		return s.transitionError(AuditCommitted)
	}
	s.State = AuditCommitted
	s.TransactionID = transactionID
	s.UpdatedAt = now
	return nil
}

// MarkAborted COUNTING|RECONCILED -> ABORTED.
func (s *AuditSession) MarkAborted(reason string, now time.Time) error {
	if s.Terminal() {
		return s.transitionError(AuditAborted)
	}
	s.State = AuditAborted
	s.FailureReason = reason
	s.UpdatedAt = now
	return nil
}

func (s *AuditSession) transitionError(to AuditState) error {
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.State, to)
}
