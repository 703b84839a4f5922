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

// TransferUseCase traslada stock de una bodega a la custodia de un vendedor, todo o nada.
type TransferUseCase struct {
	txRunner TxRunner
	dir      Directory
	caps     auth.Capabilities
	log      zerolog.Logger
	now      func() time.Time
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner TxRunner, dir Directory, caps auth.Capabilities, log zerolog.Logger) *TransferUseCase {
	return &TransferUseCase{
		txRunner: txRunner,
		dir:      dir,
		caps:     caps,
		log:      log,
		now:      time.Now,
	}
}

// Transfer verifica TODO el lote contra el stock de la bodega dentro de la tx (filas bloqueadas);
// si un solo producto no alcanza, se rechaza el lote completo sin escribir nada.
func (uc *TransferUseCase) Transfer(ctx context.Context, p auth.Principal, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpTransferStock); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	wh, err := uc.dir.Warehouses.GetByID(ctx, in.SourceWarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NotFound("bodega", in.SourceWarehouseID)
	}
	rep, err := uc.dir.Representatives.GetByID(ctx, in.RepresentativeID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, domain.NotFound("vendedor", in.RepresentativeID)
	}
	if !rep.HasAgency() {
		return nil, domain.NotFound("agencia del vendedor", rep.ID)
	}

	items := in.Merged()
	for _, it := range items {
		product, err := uc.dir.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.NotFound("producto", it.ProductID)
		}
	}

	now := uc.now()
	transferID := uuid.New().String()
	src := wh.Location()
	dst := entity.CustodyOf(rep.ID)

	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		ledger := NewStockLedger(repos.Stock, uc.now)
		journal := NewTransactionLedger(repos.Movements, entity.ReferenceTransfer, transferID, p.UserID, now)

		// 1) Verificar el lote completo antes de escribir
		for _, it := range items {
			entry, err := ledger.Lock(ctx, src, it.ProductID)
			if err != nil {
				return err
			}
			if entry.Quantity < it.Quantity {
				return &domain.InsufficientStockError{
					ProductID: it.ProductID,
					Location:  src.Key(),
					Available: entry.Quantity,
					Requested: it.Quantity,
				}
			}
		}

		// 2) Resta en bodega, suma en custodia y registra ambos lados
		for _, it := range items {
			if _, err := ledger.Adjust(ctx, src, it.ProductID, -it.Quantity); err != nil {
				return err
			}
			if _, err := ledger.Adjust(ctx, dst, it.ProductID, it.Quantity); err != nil {
				return err
			}
			if err := journal.Append(ctx, src, it.ProductID, entity.MovementTypeTransfer, entity.DirectionOut, it.Quantity, nil); err != nil {
				return err
			}
			if err := journal.Append(ctx, dst, it.ProductID, entity.MovementTypeTransfer, entity.DirectionIn, it.Quantity, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("warehouse_id", wh.ID).
			Str("representative_id", rep.ID).
			Msg("traslado a custodia rechazado")
		return nil, err
	}

	var total int64
	for _, it := range items {
		total += it.Quantity
	}
	uc.log.Info().
		Str("transfer_id", transferID).
		Str("warehouse_id", wh.ID).
		Str("representative_id", rep.ID).
		Int("items", len(items)).
		Int64("units", total).
		Msg("traslado a custodia registrado")

	return &dto.TransferResponse{
		TransferID:        transferID,
		SourceWarehouseID: wh.ID,
		RepresentativeID:  rep.ID,
		Items:             items,
		TotalUnits:        total,
	}, nil
}
