package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/custodia-api/internal/application/auth"
	"github.com/jhoicas/custodia-api/internal/application/custody"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
	"github.com/jhoicas/custodia-api/internal/infrastructure/memory"
	"github.com/jhoicas/custodia-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/custodia-api/internal/infrastructure/redis"
	"github.com/jhoicas/custodia-api/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/custodia-api/internal/interfaces/http"
	"github.com/jhoicas/custodia-api/pkg/config"
	"github.com/jhoicas/custodia-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// backend repositorios y TxRunner según STORE_DRIVER.
type backend struct {
	runner    custody.TxRunner
	dir       custody.Directory
	stock     repository.StockRepository
	movements repository.MovementRepository
	sales     repository.SaleRepository
	users     repository.UserRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "development-only-secret"
		log.Warn().Msg("JWT_SECRET vacío: usando secreto de desarrollo")
	}

	ctx := context.Background()
	be, err := newBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer be.close()

	var sessions repository.AuditSessionStore = memory.NewSessionStore()
	if cfg.Redis.Addr != "" {
		rs := infraredis.NewSessionStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rs.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible: sesiones de auditoría en memoria")
			_ = rs.Close()
		} else {
			sessions = rs
			defer rs.Close()
		}
	}

	caps := auth.DefaultCapabilities()
	authUC := auth.NewAuthUseCase(be.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	custodyLog := log.Component("custody")
	transferUC := custody.NewTransferUseCase(be.runner, be.dir, caps, custodyLog)
	auditUC := custody.NewAuditUseCase(be.runner, be.dir, be.stock, sessions, cfg.Audit.SessionTTL, caps, custodyLog)
	queryUC := custody.NewQueryUseCase(be.dir, be.stock, be.movements, be.sales, caps)
	adjustUC := custody.NewAdjustUseCase(be.runner, be.dir, caps, custodyLog)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs (generar con `swag init -g cmd/api/main.go`)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Custodia API",
		}))
	} else {
		log.Debug().Str("file", swaggerFile).Msg("swagger deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Transfer:  transferUC,
		Audit:     auditUC,
		Query:     queryUC,
		Adjust:    adjustUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func newBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		store := memory.NewStore()
		_, err := seed.Demo(ctx, seed.Repos{
			Runner:          store,
			Products:        store.Products(),
			Warehouses:      store.Warehouses(),
			Representatives: store.Representatives(),
			Users:           store.Users(),
		}, cfg.App.DemoPassword, log.Component("seed"))
		if err != nil {
			return nil, err
		}
		return &backend{
			runner:    store,
			dir:       store.Directory(),
			stock:     store.Stock(),
			movements: store.Movements(),
			sales:     store.Sales(),
			users:     store.Users(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &backend{
		runner:    postgres.NewTxRunner(pool),
		dir:       postgres.Directory(pool),
		stock:     postgres.NewStockRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		users:     postgres.NewUserRepository(pool),
		close:     pool.Close,
	}, nil
}
