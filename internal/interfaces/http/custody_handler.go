package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/custodia-api/internal/application/custody"
	"github.com/jhoicas/custodia-api/internal/application/dto"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

// CustodyHandler traslados, auditorías y liquidaciones de custodia (protegido).
type CustodyHandler struct {
	transfer *custody.TransferUseCase
	audit    *custody.AuditUseCase
	query    *custody.QueryUseCase
	adjust   *custody.AdjustUseCase
	log      zerolog.Logger
}

// NewCustodyHandler construye el handler.
func NewCustodyHandler(
	transfer *custody.TransferUseCase,
	audit *custody.AuditUseCase,
	query *custody.QueryUseCase,
	adjust *custody.AdjustUseCase,
	log zerolog.Logger,
) *CustodyHandler {
	return &CustodyHandler{transfer: transfer, audit: audit, query: query, adjust: adjust, log: log}
}

// Transfer godoc
// @Summary      Trasladar stock de bodega a la custodia de un vendedor
// @Tags         custody
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "source_warehouse_id, representative_id, items"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/custody/transfers [post]
func (h *CustodyHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.transfer.Transfer(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// BeginAudit godoc
// @Summary      Iniciar conteo de custodia (toma la foto de cantidades y versiones)
// @Tags         custody
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BeginAuditRequest  true  "representative_id"
// @Success      201   {object}  dto.AuditSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/custody/audits [post]
func (h *CustodyHandler) BeginAudit(c *fiber.Ctx) error {
	var in dto.BeginAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.audit.BeginAudit(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetAudit godoc
// @Summary      Consultar sesión de conteo
// @Tags         custody
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.AuditSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/custody/audits/{id} [get]
func (h *CustodyHandler) GetAudit(c *fiber.Ctx) error {
	out, err := h.audit.GetSession(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Settle godoc
// @Summary      Auditar y liquidar la custodia de un vendedor
// @Description  Infiere lo vendido (custodia - contado), crea la venta y aplica KEEP o RETURN en una sola transacción.
// @Tags         custody
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AuditSettleRequest  true  "conteo, pago y política de devolución"
// @Success      201   {object}  dto.AuditSettleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/custody/settlements [post]
func (h *CustodyHandler) Settle(c *fiber.Ctx) error {
	var in dto.AuditSettleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.audit.AuditAndSettle(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CustodyStock godoc
// @Summary      Stock en custodia de un vendedor
// @Tags         custody
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vendedor"
// @Success      200  {array}   dto.StockEntryResponse
// @Router       /api/custody/representatives/{id}/stock [get]
func (h *CustodyHandler) CustodyStock(c *fiber.Ctx) error {
	out, err := h.query.CustodyStock(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// WarehouseStock godoc
// @Summary      Stock de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la bodega"
// @Success      200  {array}   dto.StockEntryResponse
// @Router       /api/stock/warehouses/{id} [get]
func (h *CustodyHandler) WarehouseStock(c *fiber.Ctx) error {
	out, err := h.query.WarehouseStock(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AdjustStock godoc
// @Summary      Corrección administrativa de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "ubicación, producto y cantidad final"
// @Success      200   {object}  dto.StockEntryResponse
// @Router       /api/stock/adjustments [post]
func (h *CustodyHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.adjust.AdjustStock(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Libro de movimientos por referencia o por ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        reference_id   query  string  false  "traslado, auditoría o ajuste"
// @Param        location_kind  query  string  false  "WAREHOUSE | REP_CUSTODY"
// @Param        location_ref   query  string  false  "ID de bodega o vendedor"
// @Param        limit          query  int     false  "máximo 500"
// @Param        offset         query  int     false  "desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/movements [get]
func (h *CustodyHandler) Movements(c *fiber.Ctx) error {
	if ref := c.Query("reference_id"); ref != "" {
		out, err := h.query.MovementsByReference(c.UserContext(), GetPrincipal(c), ref)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(out)
	}
	loc := entity.Location{Kind: entity.LocationKind(c.Query("location_kind")), Ref: c.Query("location_ref")}
	out, err := h.query.MovementsByLocation(c.UserContext(), GetPrincipal(c), loc, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Sale godoc
// @Summary      Venta generada por una liquidación
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *CustodyHandler) Sale(c *fiber.Ctx) error {
	out, err := h.query.Sale(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SalesBySeller godoc
// @Summary      Ventas de un vendedor
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del vendedor"
// @Param        limit   query  int     false  "máximo 500"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.SaleResponse
// @Router       /api/custody/representatives/{id}/sales [get]
func (h *CustodyHandler) SalesBySeller(c *fiber.Ctx) error {
	out, err := h.query.SalesBySeller(c.UserContext(), GetPrincipal(c), c.Params("id"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
