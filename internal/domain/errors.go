package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrValidation           = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrComputationAmbiguity = errors.New("conteo mayor que la custodia registrada")
	ErrConcurrencyConflict  = errors.New("la custodia cambió desde que inició el conteo")
	ErrInvalidTransition    = errors.New("transición de estado inválida")
)

// InsufficientStockError indica qué producto no alcanza en la ubicación de origen.
type InsufficientStockError struct {
	ProductID string
	Location  string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en %s: disponible %d, solicitado %d",
		e.ProductID, e.Location, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NotFoundError identifica el recurso faltante.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError describe el campo inválido de una solicitud.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AmbiguousCount es un producto cuyo conteo supera la custodia.
type AmbiguousCount struct {
	ProductID string
	Baseline  int64
	Actual    int64
}

// ComputationAmbiguityError agrupa los productos con conteo mayor a la custodia.
// Queda abierto si es un error de captura o stock encontrado; mientras tanto la operación se aborta.
type ComputationAmbiguityError struct {
	Items []AmbiguousCount
}

func (e *ComputationAmbiguityError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("%s (custodia %d, contado %d)", it.ProductID, it.Baseline, it.Actual))
	}
	return ErrComputationAmbiguity.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ComputationAmbiguityError) Is(target error) bool { return target == ErrComputationAmbiguity }

// ConcurrencyConflictError indica la versión esperada y la encontrada de una fila de custodia.
type ConcurrencyConflictError struct {
	ProductID string
	Expected  int64
	Found     int64
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s: producto %s (versión esperada %d, actual %d)",
		ErrConcurrencyConflict.Error(), e.ProductID, e.Expected, e.Found)
}

func (e *ConcurrencyConflictError) Is(target error) bool { return target == ErrConcurrencyConflict }
