package auth

import (
	"fmt"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// Operation operación expuesta por el motor de custodia.
type Operation string

const (
	OpTransferStock Operation = "custody.transfer"
	OpBeginAudit    Operation = "custody.audit.begin"
	OpAuditSettle   Operation = "custody.audit.settle"
	OpAdjustStock   Operation = "stock.adjust"
	OpViewStock     Operation = "stock.view" // custodia de un vendedor
	OpViewWarehouse Operation = "stock.warehouse.view"
	OpViewLedger    Operation = "ledger.view"
	OpViewSale      Operation = "sale.view"
)

// Capabilities tabla operación -> roles permitidos.
type Capabilities map[Operation][]string

// DefaultCapabilities tabla de permisos del back office.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		OpTransferStock: {entity.RoleAdmin, entity.RoleBodeguero},
		OpBeginAudit:    {entity.RoleAdmin, entity.RoleBodeguero, entity.RoleContador},
		OpAuditSettle:   {entity.RoleAdmin, entity.RoleBodeguero, entity.RoleContador},
		OpAdjustStock:   {entity.RoleAdmin},
		OpViewStock:     {entity.RoleAdmin, entity.RoleBodeguero, entity.RoleContador, entity.RoleVendedor},
		OpViewWarehouse: {entity.RoleAdmin, entity.RoleBodeguero, entity.RoleContador},
		OpViewLedger:    {entity.RoleAdmin, entity.RoleBodeguero, entity.RoleContador},
		OpViewSale:      {entity.RoleAdmin, entity.RoleContador, entity.RoleVendedor},
	}
}

// Authorize verifica que el rol del principal pueda ejecutar op.
// Operaciones ausentes de la tabla se niegan.
func (c Capabilities) Authorize(p Principal, op Operation) error {
	if !p.Authenticated() {
		return domain.ErrUnauthorized
	}
	for _, role := range c[op] {
		if role == p.Role {
			return nil
		}
	}
	return fmt.Errorf("%w: rol %q no puede ejecutar %s", domain.ErrForbidden, p.Role, op)
}
