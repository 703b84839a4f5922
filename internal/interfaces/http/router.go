package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/custodia-api/internal/application/auth"
	"github.com/jhoicas/custodia-api/internal/application/custody"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Transfer  *custody.TransferUseCase
	Audit     *custody.AuditUseCase
	Query     *custody.QueryUseCase
	Adjust    *custody.AdjustUseCase
	JWTSecret string
	Log       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token); los permisos por rol los decide cada caso de uso
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	h := NewCustodyHandler(deps.Transfer, deps.Audit, deps.Query, deps.Adjust, deps.Log)

	custodyGroup := protected.Group("/custody")
	custodyGroup.Post("/transfers", h.Transfer)
	custodyGroup.Post("/audits", h.BeginAudit)
	custodyGroup.Get("/audits/:id", h.GetAudit)
	custodyGroup.Post("/settlements", h.Settle)
	custodyGroup.Get("/representatives/:id/stock", h.CustodyStock)
	custodyGroup.Get("/representatives/:id/sales", h.SalesBySeller)

	stock := protected.Group("/stock")
	stock.Get("/warehouses/:id", h.WarehouseStock)
	stock.Post("/adjustments", h.AdjustStock)

	protected.Get("/movements", h.Movements)
	protected.Get("/sales/:id", h.Sale)
}
