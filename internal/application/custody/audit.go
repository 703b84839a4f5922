package custody

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/custodia-api/internal/application/auth"
	"github.com/jhoicas/custodia-api/internal/application/dto"
	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/inventory"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

// AuditUseCase concilia el conteo físico de un vendedor contra su custodia y liquida:
// venta + devolución/retención en una sola transacción.
type AuditUseCase struct {
	txRunner   TxRunner
	dir        Directory
	stock      repository.StockRepository
	sessions   repository.AuditSessionStore
	sessionTTL time.Duration
	caps       auth.Capabilities
	log        zerolog.Logger
	builder    SettlementBuilder
	router     ReturnRouter
	now        func() time.Time
}

// NewAuditUseCase construye el caso de uso. stock es el repositorio fuera de tx (foto de custodia).
func NewAuditUseCase(
	txRunner TxRunner,
	dir Directory,
	stock repository.StockRepository,
	sessions repository.AuditSessionStore,
	sessionTTL time.Duration,
	caps auth.Capabilities,
	log zerolog.Logger,
) *AuditUseCase {
	return &AuditUseCase{
		txRunner:   txRunner,
		dir:        dir,
		stock:      stock,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		caps:       caps,
		log:        log,
		now:        time.Now,
	}
}

// BeginAudit abre una sesión COUNTING con la foto (cantidad, versión) de la custodia.
func (uc *AuditUseCase) BeginAudit(ctx context.Context, p auth.Principal, in dto.BeginAuditRequest) (*dto.AuditSessionResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpBeginAudit); err != nil {
		return nil, err
	}
	if in.RepresentativeID == "" {
		return nil, domain.Invalid("representative_id", "requerido")
	}
	rep, err := uc.representative(ctx, in.RepresentativeID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.stock.ListByLocation(ctx, entity.CustodyOf(rep.ID))
	if err != nil {
		return nil, err
	}
	baseline := make(map[string]entity.BaselineEntry, len(entries))
	for _, e := range entries {
		baseline[e.ProductID] = entity.BaselineEntry{Quantity: e.Quantity, Version: e.Version}
	}

	session := entity.NewAuditSession(uuid.New().String(), rep.ID, p.UserID, baseline, uc.now())
	if err := uc.sessions.Save(ctx, session, uc.sessionTTL); err != nil {
		return nil, fmt.Errorf("guardar sesión de auditoría: %w", err)
	}
	uc.log.Info().
		Str("audit_id", session.ID).
		Str("representative_id", rep.ID).
		Int("products", len(baseline)).
		Msg("conteo de custodia iniciado")
	return toSessionResponse(session), nil
}

// GetSession devuelve una sesión de conteo.
func (uc *AuditUseCase) GetSession(ctx context.Context, p auth.Principal, id string) (*dto.AuditSessionResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpBeginAudit); err != nil {
		return nil, err
	}
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.NotFound("sesión de auditoría", id)
	}
	return toSessionResponse(session), nil
}

type settledLine struct {
	rec  inventory.Reconciled
	line entity.SaleLine
}

// AuditAndSettle concilia, valoriza, crea la venta (si hubo) y aplica la política de devolución.
// Cualquier error aborta la tx completa y deja la sesión en ABORTED.
func (uc *AuditUseCase) AuditAndSettle(ctx context.Context, p auth.Principal, in dto.AuditSettleRequest) (*dto.AuditSettleResponse, error) {
	if err := uc.caps.Authorize(p, auth.OpAuditSettle); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rep, err := uc.representative(ctx, in.RepresentativeID)
	if err != nil {
		return nil, err
	}
	var target *entity.Location
	if in.TargetWarehouseID != "" {
		wh, err := uc.dir.Warehouses.GetByID(ctx, in.TargetWarehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, domain.NotFound("bodega", in.TargetWarehouseID)
		}
		loc := wh.Location()
		target = &loc
	}
	products := make(map[string]*entity.Product, len(in.CountedItems))
	for _, it := range in.CountedItems {
		product, err := uc.dir.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.NotFound("producto", it.ProductID)
		}
		products[it.ProductID] = product
	}

	session, err := uc.openSession(ctx, p, rep.ID, in.SessionID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	saleID := uuid.New().String()
	policy := ReturnPolicy(in.ReturnPolicy)
	custody := entity.CustodyOf(rep.ID)
	var (
		sale    *entity.SaleTransaction
		settled []settledLine
	)

	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		sale, settled = nil, nil
		ledger := NewStockLedger(repos.Stock, uc.now)
		journal := NewTransactionLedger(repos.Movements, entity.ReferenceAudit, session.ID, p.UserID, now)

		// 1) Bloquear la custodia y comparar versiones contra la foto del conteo
		counts := make([]inventory.Count, 0, len(in.CountedItems))
		for _, it := range in.CountedItems {
			entry, err := ledger.Lock(ctx, custody, it.ProductID)
			if err != nil {
				return err
			}
			if expected, ok := expectedVersion(session, it); ok && entry.Version != expected {
				return &domain.ConcurrencyConflictError{ProductID: it.ProductID, Expected: expected, Found: entry.Version}
			}
			counts = append(counts, inventory.Count{
				ProductID:      it.ProductID,
				UnitsPerCarton: products[it.ProductID].UnitsPerCarton,
				Baseline:       entry.Quantity,
				Cartons:        it.Cartons,
				Units:          it.Units,
			})
		}

		// 2) vendido = max(0, custodia - contado)
		reconciled, err := inventory.Reconcile(counts)
		if err != nil {
			return err
		}
		if err := session.MarkReconciled(uc.now()); err != nil {
			return err
		}

		// 3) Valorizar con el tier del vendedor; las líneas en cero no entran a la venta
		lines := make([]entity.SaleLine, 0, len(reconciled))
		for _, r := range reconciled {
			if r.Sold == 0 {
				continue
			}
			price, err := inventory.Resolve(products[r.ProductID], rep.PricingTier, r.Sold)
			if err != nil {
				return err
			}
			line := entity.SaleLine{
				ProductID:   r.ProductID,
				Quantity:    r.Sold,
				Cartons:     price.FullCartons,
				Units:       price.LooseUnits,
				CartonPrice: price.CartonPrice,
				UnitPrice:   price.UnitPrice,
				LineTotal:   price.Total,
			}
			lines = append(lines, line)
			settled = append(settled, settledLine{rec: r, line: line})
		}

		// 4) Venta + movimientos de liquidación
		sale, err = uc.builder.Build(SettlementInput{
			SaleID:     saleID,
			SellerID:   rep.ID,
			CustomerID: in.CustomerID,
			AuditID:    session.ID,
			CreatedBy:  p.UserID,
			Lines:      lines,
			Payment:    entity.PaymentType(in.Payment.Type),
			PaidAmount: in.Payment.PaidAmount,
			At:         now,
		})
		if err != nil {
			return err
		}
		if sale != nil {
			if err := repos.Sales.Create(ctx, sale); err != nil {
				return err
			}
			for _, l := range sale.Lines {
				value := l.LineTotal
				if err := journal.Append(ctx, custody, l.ProductID, entity.MovementTypeSettlement, entity.DirectionOut, l.Quantity, &value); err != nil {
					return err
				}
			}
		}

		// 5) Devolución o retención de lo contado
		for _, r := range reconciled {
			if err := uc.router.Route(ctx, ledger, journal, policy, custody, target, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if abortErr := session.MarkAborted(err.Error(), uc.now()); abortErr == nil {
			uc.saveSession(ctx, session)
		}
		uc.log.Warn().Err(err).
			Str("audit_id", session.ID).
			Str("representative_id", rep.ID).
			Msg("liquidación de custodia abortada")
		return nil, err
	}

	txID := ""
	if sale != nil {
		txID = sale.ID
	}
	if err := session.MarkCommitted(txID, uc.now()); err != nil {
		return nil, err
	}
	uc.saveSession(ctx, session)

	resp := &dto.AuditSettleResponse{
		AuditID:         session.ID,
		State:           string(session.State),
		TransactionID:   txID,
		SoldLines:       make([]dto.SoldLineResponse, 0, len(settled)),
		TotalAmount:     decimal.Zero,
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.Zero,
		ReturnPolicy:    in.ReturnPolicy,
	}
	for _, s := range settled {
		resp.SoldLines = append(resp.SoldLines, toSoldLine(s.line, s.rec.Baseline, s.rec.Actual))
	}
	if sale != nil {
		resp.TotalAmount = sale.TotalAmount
		resp.PaymentType = string(sale.PaymentType)
		resp.PaidAmount = sale.PaidAmount
		resp.RemainingAmount = sale.RemainingAmount
	}

	uc.log.Info().
		Str("audit_id", session.ID).
		Str("representative_id", rep.ID).
		Str("transaction_id", txID).
		Str("return_policy", in.ReturnPolicy).
		Int("sold_lines", len(resp.SoldLines)).
		Str("total", resp.TotalAmount.String()).
		Msg("custodia liquidada")
	return resp, nil
}

func (uc *AuditUseCase) representative(ctx context.Context, id string) (*entity.Representative, error) {
	rep, err := uc.dir.Representatives.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, domain.NotFound("vendedor", id)
	}
	return rep, nil
}

// openSession carga la sesión indicada (debe estar en COUNTING y ser del mismo vendedor)
// o crea una sesión sin foto para una liquidación directa.
func (uc *AuditUseCase) openSession(ctx context.Context, p auth.Principal, repID, sessionID string) (*entity.AuditSession, error) {
	if sessionID == "" {
		return entity.NewAuditSession(uuid.New().String(), repID, p.UserID, nil, uc.now()), nil
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.NotFound("sesión de auditoría", sessionID)
	}
	if session.RepresentativeID != repID {
		return nil, domain.Invalid("session_id", "la sesión pertenece a otro vendedor")
	}
	if session.State != entity.AuditCounting {
		return nil, fmt.Errorf("%w: la sesión está en estado %s", domain.ErrInvalidTransition, session.State)
	}
	return session, nil
}

func (uc *AuditUseCase) saveSession(ctx context.Context, session *entity.AuditSession) {
	if err := uc.sessions.Save(ctx, session, uc.sessionTTL); err != nil {
		uc.log.Error().Err(err).Str("audit_id", session.ID).Msg("no se pudo guardar la sesión de auditoría")
	}
}

// expectedVersion la versión enviada por el cliente tiene prioridad sobre la foto de la sesión.
func expectedVersion(session *entity.AuditSession, it dto.CountedItem) (int64, bool) {
	if it.ExpectedVersion != nil {
		return *it.ExpectedVersion, true
	}
	return session.ExpectedVersion(it.ProductID)
}

func toSessionResponse(s *entity.AuditSession) *dto.AuditSessionResponse {
	return &dto.AuditSessionResponse{
		ID:               s.ID,
		RepresentativeID: s.RepresentativeID,
		State:            string(s.State),
		Baseline:         s.Baseline,
		TransactionID:    s.TransactionID,
		FailureReason:    s.FailureReason,
		StartedAt:        s.StartedAt,
	}
}

func toSoldLine(l entity.SaleLine, baseline, actual int64) dto.SoldLineResponse {
	return dto.SoldLineResponse{
		ProductID:   l.ProductID,
		Baseline:    baseline,
		Actual:      actual,
		Quantity:    l.Quantity,
		Cartons:     l.Cartons,
		Units:       l.Units,
		CartonPrice: l.CartonPrice,
		UnitPrice:   l.UnitPrice,
		LineTotal:   l.LineTotal,
	}
}
