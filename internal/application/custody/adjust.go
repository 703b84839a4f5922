package custody

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/custodia-api/internal/application/auth"
	"github.com/jhoicas/custodia-api/internal/application/dto"
	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// AdjustUseCase corrección administrativa: fija la cantidad de un producto en una ubicación
// y deja la diferencia en el libro como ADJUSTMENT.
type AdjustUseCase struct {
	txRunner TxRunner
	dir      Directory
	caps     auth.Capabilities
	log      zerolog.Logger
	now      func() time.Time
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(txRunner TxRunner, dir Directory, caps auth.Capabilities, log zerolog.Logger) *AdjustUseCase {
	return &AdjustUseCase{txRunner: txRunner, dir: dir, caps: caps, log: log, now: time.Now}
}

// AdjustStock sin diferencia no se registra movimiento.
func (uc *AdjustUseCase) AdjustStock(ctx context.Context, p auth.Principal, in dto.AdjustStockRequest) (*dto.StockEntryResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpAdjustStock); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	loc := entity.Location{Kind: entity.LocationKind(in.LocationKind), Ref: in.LocationRef}
	if err := uc.ensureLocation(ctx, loc); err != nil {
		return nil, err
	}
	product, err := uc.dir.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", in.ProductID)
	}

	adjustmentID := uuid.New().String()
	var (
		entry    *entity.StockEntry
		previous int64
	)
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		ledger := NewStockLedger(repos.Stock, uc.now)
		journal := NewTransactionLedger(repos.Movements, entity.ReferenceAdjustment, adjustmentID, p.UserID, uc.now())

		current, err := ledger.Lock(ctx, loc, in.ProductID)
		if err != nil {
			return err
		}
		previous = current.Quantity
		entry, err = ledger.Set(ctx, loc, in.ProductID, in.Quantity)
		if err != nil {
			return err
		}
		diff := in.Quantity - previous
		switch {
		case diff > 0:
			return journal.Append(ctx, loc, in.ProductID, entity.MovementTypeAdjustment, entity.DirectionIn, diff, nil)
		case diff < 0:
			return journal.Append(ctx, loc, in.ProductID, entity.MovementTypeAdjustment, entity.DirectionOut, -diff, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("adjustment_id", adjustmentID).
		Str("location", loc.Key()).
		Str("product_id", in.ProductID).
		Int64("from", previous).
		Int64("to", entry.Quantity).
		Str("reason", in.Reason).
		Msg("ajuste de stock registrado")

	resp := &dto.StockEntryResponse{
		LocationKind: string(loc.Kind),
		LocationRef:  loc.Ref,
		ProductID:    entry.ProductID,
		Quantity:     entry.Quantity,
		Version:      entry.Version,
		UpdatedAt:    entry.UpdatedAt,
	}
	if product.UnitsPerCarton > 0 {
		resp.Cartons = entry.Quantity / product.UnitsPerCarton
		resp.Units = entry.Quantity % product.UnitsPerCarton
	}
	return resp, nil
}

func (uc *AdjustUseCase) ensureLocation(ctx context.Context, loc entity.Location) error {
	if loc.IsCustody() {
		rep, err := uc.dir.Representatives.GetByID(ctx, loc.Ref)
		if err != nil {
			return err
		}
		if rep == nil {
			return domain.NotFound("vendedor", loc.Ref)
		}
		return nil
	}
	wh, err := uc.dir.Warehouses.GetByID(ctx, loc.Ref)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.NotFound("bodega", loc.Ref)
	}
	return nil
}
