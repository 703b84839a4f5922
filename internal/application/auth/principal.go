package auth

import (
	"context"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// Principal identidad explícita que acompaña cada operación (reemplaza al "usuario actual" global).
type Principal struct {
	UserID           string
	Role             string
	RepresentativeID string // solo para rol vendedor
}

// Authenticated true si el principal tiene usuario y rol.
func (p Principal) Authenticated() bool {
	return p.UserID != "" && p.Role != ""
}

// CanSeeRepresentative indica si el principal puede ver la custodia y las ventas de repID.
// Un vendedor solo ve las suyas; un vendedor sin vendedor asociado no ve ninguna.
func (p Principal) CanSeeRepresentative(repID string) bool {
	if p.Role != entity.RoleVendedor {
		return true
	}
	return p.RepresentativeID != "" && p.RepresentativeID == repID
}

type principalKey struct{}

// WithPrincipal adjunta el principal al contexto.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extrae el principal del contexto; ErrUnauthorized si no hay.
func PrincipalFrom(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || !p.Authenticated() {
		return Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}
