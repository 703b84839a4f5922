package entity

import (
	"fmt"
	"strings"
)

// LocationKind distingue una bodega de la custodia de un vendedor.
type LocationKind string

const (
	LocationWarehouse  LocationKind = "WAREHOUSE"
	LocationRepCustody LocationKind = "REP_CUSTODY"
)

// Location es una variante etiquetada: Ref es el ID de la bodega o el ID del vendedor dueño de la custodia.
type Location struct {
	Kind LocationKind
	Ref  string
}

// WarehouseLocation construye la ubicación de una bodega.
func WarehouseLocation(warehouseID string) Location {
	return Location{Kind: LocationWarehouse, Ref: warehouseID}
}

// CustodyOf construye la ubicación de custodia de un vendedor.
func CustodyOf(representativeID string) Location {
	return Location{Kind: LocationRepCustody, Ref: representativeID}
}

// Valid indica si la ubicación tiene tipo conocido y referencia.
func (l Location) Valid() bool {
	return (l.Kind == LocationWarehouse || l.Kind == LocationRepCustody) && strings.TrimSpace(l.Ref) != ""
}

// IsCustody true si la ubicación es la custodia de un vendedor.
func (l Location) IsCustody() bool { return l.Kind == LocationRepCustody }

// Key devuelve una llave estable, ej. "WAREHOUSE:abc".
func (l Location) Key() string {
	return string(l.Kind) + ":" + l.Ref
}

func (l Location) String() string { return l.Key() }

// ParseLocation interpreta una llave generada por Key.
func ParseLocation(key string) (Location, error) {
	kind, ref, ok := strings.Cut(key, ":")
	loc := Location{Kind: LocationKind(kind), Ref: ref}
	if !ok || !loc.Valid() {
		return Location{}, fmt.Errorf("ubicación inválida: %q", key)
	}
	return loc, nil
}
