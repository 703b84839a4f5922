// Package seed carga datos de demostración: catálogo, bodega, vendedores, usuarios por rol
// y stock inicial en bodega registrado como ADJUSTMENT.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/custodia-api/internal/application/custody"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

// Repos destinos de la carga.
type Repos struct {
	Runner          custody.TxRunner
	Products        repository.ProductRepository
	Warehouses      repository.WarehouseRepository
	Representatives repository.RepresentativeRepository
	Users           repository.UserRepository
}

// Result IDs creados, útiles para pruebas manuales.
type Result struct {
	WarehouseID       string
	RepresentativeIDs []string
	ProductIDs        []string
	UserEmails        []string
}

type productSeed struct {
	sku, name               string
	upc                     int64
	factory, wCarton, wUnit string
	rCarton, rUnit          string
	initialCartons          int64
}

var catalog = []productSeed{
	{"GAL-12", "Galleta x12", 12, "80", "100", "8.50", "120", "10.25", 20},
	{"JUG-06", "Jugo x6", 6, "20", "30", "5.50", "36", "6.50", 15},
	{"CAF-24", "Café sobre x24", 24, "48", "60", "2.70", "72", "3.20", 10},
}

// Demo crea el conjunto de demostración. password es la clave común de los usuarios demo.
func Demo(ctx context.Context, r Repos, password string, log zerolog.Logger) (*Result, error) {
	if password == "" {
		return nil, fmt.Errorf("seed: password vacío")
	}
	now := time.Now()
	res := &Result{}

	wh := &entity.Warehouse{ID: uuid.New().String(), AgencyID: "agencia-centro", Name: "Bodega Principal", Address: "Calle 10 # 5-20", CreatedAt: now, UpdatedAt: now}
	if err := r.Warehouses.Create(ctx, wh); err != nil {
		return nil, fmt.Errorf("seed bodega: %w", err)
	}
	res.WarehouseID = wh.ID

	reps := []*entity.Representative{
		{ID: uuid.New().String(), Name: "Ana Torres", AgencyID: wh.AgencyID, PricingTier: entity.TierWholesale},
		{ID: uuid.New().String(), Name: "Carlos Ruiz", AgencyID: wh.AgencyID, PricingTier: entity.TierRetail},
	}
	for _, rep := range reps {
		rep.CreatedAt, rep.UpdatedAt = now, now
		if err := r.Representatives.Create(ctx, rep); err != nil {
			return nil, fmt.Errorf("seed vendedor %s: %w", rep.Name, err)
		}
		res.RepresentativeIDs = append(res.RepresentativeIDs, rep.ID)
	}

	products := make([]*entity.Product, 0, len(catalog))
	for _, ps := range catalog {
		p := &entity.Product{
			ID:                   uuid.New().String(),
			SKU:                  ps.sku,
			Name:                 ps.name,
			UnitsPerCarton:       ps.upc,
			FactoryPrice:         decimal.RequireFromString(ps.factory),
			WholesaleCartonPrice: decimal.RequireFromString(ps.wCarton),
			WholesaleUnitPrice:   decimal.RequireFromString(ps.wUnit),
			RetailCartonPrice:    decimal.RequireFromString(ps.rCarton),
			RetailUnitPrice:      decimal.RequireFromString(ps.rUnit),
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := r.Products.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("seed producto %s: %w", ps.sku, err)
		}
		products = append(products, p)
		res.ProductIDs = append(res.ProductIDs, p.ID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed hash: %w", err)
	}
	users := []*entity.User{
		{Email: "admin@custodia.local", Name: "Administrador", Role: entity.RoleAdmin},
		{Email: "bodega@custodia.local", Name: "Bodeguero", Role: entity.RoleBodeguero},
		{Email: "contador@custodia.local", Name: "Contador", Role: entity.RoleContador},
		{Email: "ana@custodia.local", Name: reps[0].Name, Role: entity.RoleVendedor, RepresentativeID: reps[0].ID},
	}
	for _, u := range users {
		u.ID = uuid.New().String()
		u.PasswordHash = string(hash)
		u.Status = "active"
		u.CreatedAt, u.UpdatedAt = now, now
		if err := r.Users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("seed usuario %s: %w", u.Email, err)
		}
		res.UserEmails = append(res.UserEmails, u.Email)
	}

	adjustmentID := uuid.New().String()
	err = r.Runner.Run(ctx, func(ctx context.Context, repos custody.TxRepos) error {
		ledger := custody.NewStockLedger(repos.Stock, time.Now)
		journal := custody.NewTransactionLedger(repos.Movements, entity.ReferenceAdjustment, adjustmentID, "seed", now)
		for i, p := range products {
			qty := catalog[i].initialCartons * p.UnitsPerCarton
			if _, err := ledger.Adjust(ctx, wh.Location(), p.ID, qty); err != nil {
				return err
			}
			if err := journal.Append(ctx, wh.Location(), p.ID, entity.MovementTypeAdjustment, entity.DirectionIn, qty, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed stock inicial: %w", err)
	}

	log.Info().
		Str("warehouse_id", wh.ID).
		Int("products", len(products)).
		Int("representatives", len(reps)).
		Int("users", len(users)).
		Msg("datos demo cargados")
	return res, nil
}
