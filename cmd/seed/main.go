// seed crea el esquema y carga los datos de demostración en PostgreSQL:
// bodega, vendedores, catálogo, usuarios por rol (clave DEMO_PASSWORD) y stock inicial.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/custodia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/custodia-api/internal/infrastructure/seed"
	"github.com/jhoicas/custodia-api/pkg/config"
	"github.com/jhoicas/custodia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	res, err := seed.Demo(ctx, seed.Repos{
		Runner:          postgres.NewTxRunner(pool),
		Products:        postgres.NewProductRepository(pool),
		Warehouses:      postgres.NewWarehouseRepository(pool),
		Representatives: postgres.NewRepresentativeRepository(pool),
		Users:           postgres.NewUserRepository(pool),
	}, cfg.App.DemoPassword, log.Component("seed"))
	if err != nil {
		log.Fatal().Err(err).Msg("cargar datos demo")
	}

	fmt.Printf("Bodega: %s\n", res.WarehouseID)
	fmt.Printf("Vendedores: %v\n", res.RepresentativeIDs)
	fmt.Printf("Productos: %v\n", res.ProductIDs)
	fmt.Printf("Usuarios: %v\n", res.UserEmails)
}
