package custody

import (
	"context"
	"fmt"

	"github.com/jhoicas/custodia-api/internal/application/auth"
	"github.com/jhoicas/custodia-api/internal/application/dto"
	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

const (
	defaultMovementsLimit = 50
	maxMovementsLimit     = 500
)

// QueryUseCase consultas de stock, movimientos y ventas (fuera de tx).
type QueryUseCase struct {
	dir       Directory
	stock     repository.StockRepository
	movements repository.MovementRepository
	sales     repository.SaleRepository
	caps      auth.Capabilities
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	dir Directory,
	stock repository.StockRepository,
	movements repository.MovementRepository,
	sales repository.SaleRepository,
	caps auth.Capabilities,
) *QueryUseCase {
	return &QueryUseCase{dir: dir, stock: stock, movements: movements, sales: sales, caps: caps}
}

// CustodyStock stock en custodia de un vendedor. Un vendedor solo ve la suya.
func (uc *QueryUseCase) CustodyStock(ctx context.Context, p auth.Principal, representativeID string) ([]dto.StockEntryResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpViewStock); err != nil {
		return nil, err
	}
	if err := ownCustody(p, representativeID); err != nil {
		return nil, err
	}
	rep, err := uc.dir.Representatives.GetByID(ctx, representativeID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, domain.NotFound("vendedor", representativeID)
	}
	return uc.listStock(ctx, entity.CustodyOf(rep.ID))
}

// WarehouseStock stock de una bodega.
func (uc *QueryUseCase) WarehouseStock(ctx context.Context, p auth.Principal, warehouseID string) ([]dto.StockEntryResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpViewWarehouse); err != nil {
		return nil, err
	}
	wh, err := uc.dir.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NotFound("bodega", warehouseID)
	}
	return uc.listStock(ctx, wh.Location())
}

// MovementsByLocation movimientos de una ubicación, más recientes primero.
func (uc *QueryUseCase) MovementsByLocation(ctx context.Context, p auth.Principal, loc entity.Location, limit, offset int) ([]dto.MovementResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpViewLedger); err != nil {
		return nil, err
	}
	if !loc.Valid() {
		return nil, domain.Invalid("location", "ubicación inválida")
	}
	if limit <= 0 {
		limit = defaultMovementsLimit
	}
	if limit > maxMovementsLimit {
		limit = maxMovementsLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.movements.ListByLocation(ctx, loc, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// MovementsByReference movimientos de un traslado, auditoría o ajuste.
func (uc *QueryUseCase) MovementsByReference(ctx context.Context, p auth.Principal, referenceID string) ([]dto.MovementResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpViewLedger); err != nil {
		return nil, err
	}
	if referenceID == "" {
		return nil, domain.Invalid("reference_id", "requerido")
	}
	list, err := uc.movements.ListByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// Sale venta por ID. Un vendedor solo ve sus ventas.
func (uc *QueryUseCase) Sale(ctx context.Context, p auth.Principal, id string) (*dto.SaleResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpViewSale); err != nil {
		return nil, err
	}
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta", id)
	}
	if err := ownCustody(p, sale.SellerID); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// SalesBySeller ventas de un vendedor, más recientes primero.
func (uc *QueryUseCase) SalesBySeller(ctx context.Context, p auth.Principal, representativeID string, limit, offset int) ([]dto.SaleResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpViewSale); err != nil {
		return nil, err
	}
	if err := ownCustody(p, representativeID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMovementsLimit
	}
	if limit > maxMovementsLimit {
		limit = maxMovementsLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.sales.ListBySeller(ctx, representativeID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

func (uc *QueryUseCase) listStock(ctx context.Context, loc entity.Location) ([]dto.StockEntryResponse, error) {
	entries, err := uc.stock.ListByLocation(ctx, loc)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		r := dto.StockEntryResponse{
			LocationKind: string(e.Location.Kind),
			LocationRef:  e.Location.Ref,
			ProductID:    e.ProductID,
			Quantity:     e.Quantity,
			Version:      e.Version,
			UpdatedAt:    e.UpdatedAt,
		}
		product, err := uc.dir.Products.GetByID(ctx, e.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil && product.UnitsPerCarton > 0 {
			r.Cartons = e.Quantity / product.UnitsPerCarton
			r.Units = e.Quantity % product.UnitsPerCarton
		}
		out = append(out, r)
	}
	return out, nil
}

func toSaleResponse(sale *entity.SaleTransaction) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:              sale.ID,
		SellerID:        sale.SellerID,
		CustomerID:      sale.CustomerID,
		AuditID:         sale.AuditID,
		Lines:           make([]dto.SoldLineResponse, 0, len(sale.Lines)),
		TotalAmount:     sale.TotalAmount,
		PaymentType:     string(sale.PaymentType),
		PaidAmount:      sale.PaidAmount,
		RemainingAmount: sale.RemainingAmount,
		CreatedAt:       sale.CreatedAt,
	}
	for _, l := range sale.Lines {
		resp.Lines = append(resp.Lines, toSoldLine(l, 0, 0))
	}
	return resp
}

func ownCustody(p auth.Principal, representativeID string) error {
	if !p.CanSeeRepresentative(representativeID) {
		return fmt.Errorf("%w: custodia de otro vendedor", domain.ErrForbidden)
	}
	return nil
}

func toMovementResponses(list []*entity.MovementLogEntry) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			ReferenceID:   m.ReferenceID,
			ReferenceType: m.ReferenceType,
			LocationKind:  string(m.Location.Kind),
			LocationRef:   m.Location.Ref,
			ProductID:     m.ProductID,
			Type:          m.Type,
			Direction:     m.Direction,
			Quantity:      m.Quantity,
			Value:         m.Value,
			CreatedBy:     m.CreatedBy,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out
}
