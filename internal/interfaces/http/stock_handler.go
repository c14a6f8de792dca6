package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/internal/application/ledger"
	"github.com/jportela/estoque-api/internal/domain"
)

// StockHandler expõe o razão de movimentações de estoque (protegido).
type StockHandler struct {
	uc *ledger.UseCase
}

// NewStockHandler constrói o handler.
func NewStockHandler(uc *ledger.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// actor monta a identidade de auditoria a partir do token e da conexão.
func actor(c *fiber.Ctx) ledger.Actor {
	return ledger.Actor{
		UserID:    GetUserID(c),
		UserName:  GetUserName(c),
		IPAddress: c.IP(),
	}
}

// CreateMovement godoc
// @Summary      Registrar movimentação de estoque
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "movementType, idProduct, quantity, reason (ajuste/exclusão), referenceDocument"
// @Success      201   {object}  dto.CreateMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) CreateMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.CreateMovement(c.Context(), GetAccountID(c), actor(c), in)
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimentações com filtros e paginação
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        startDate     query  string  false  "RFC3339"
// @Param        endDate       query  string  false  "RFC3339"
// @Param        movementType  query  string  false  "entrada|saída|ajuste|criação|exclusão|estorno|todos"
// @Param        idProduct     query  int     false  "filtrar por produto"
// @Param        idUser        query  int     false  "filtrar por usuário"
// @Param        orderBy       query  string  false  "data_crescente|data_decrescente (padrão)"
// @Param        pageSize      query  int     false  "10..1000 (padrão 50)"
// @Param        pageNumber    query  int     false  ">= 1 (padrão 1)"
// @Success      200  {object}  dto.ListMovementsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	in := dto.ListMovementsRequest{
		MovementType: c.Query("movementType"),
		OrderBy:      c.Query("orderBy"),
		PageSize:     c.QueryInt("pageSize"),
		PageNumber:   c.QueryInt("pageNumber"),
	}
	var err error
	if in.StartDate, err = queryTime(c, "startDate"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "startDate inválida (RFC3339)"})
	}
	if in.EndDate, err = queryTime(c, "endDate"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "endDate inválida (RFC3339)"})
	}
	if in.IDProduct, err = queryInt64(c, "idProduct"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "idProduct inválido"})
	}
	if in.IDUser, err = queryInt64(c, "idUser"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "idUser inválido"})
	}

	out, err := h.uc.ListMovements(c.Context(), GetAccountID(c), in)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(out)
}

// Balance godoc
// @Summary      Saldo calculado de um produto (replay do razão)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        idProduct      path   int     true   "ID do produto"
// @Param        referenceDate  query  string  false  "RFC3339; saldo na data (padrão: agora)"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/balance/{idProduct} [get]
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Params("idProduct"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "idProduct inválido"})
	}
	referenceDate, err := queryTime(c, "referenceDate")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "referenceDate inválida (RFC3339)"})
	}
	out, err := h.uc.Balance(c.Context(), GetAccountID(c), productID, referenceDate)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(out)
}

// ReverseMovement godoc
// @Summary      Estornar uma movimentação
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReverseMovementRequest  true  "idOriginalMovement, reason (obrigatório)"
// @Success      201   {object}  dto.ReverseMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements/reverse [post]
func (h *StockHandler) ReverseMovement(c *fiber.Ctx) error {
	var in dto.ReverseMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.ReverseMovement(c.Context(), GetAccountID(c), actor(c), in)
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Shortage godoc
// @Summary      Produtos em falta da conta
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        status   query  string  false  "todos_em_falta (padrão) | zerado | crítico | baixo"
// @Param        orderBy  query  string  false  "criticidade (padrão) | alfabetica"
// @Success      200  {array}   dto.ShortageRow
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/shortage [get]
func (h *StockHandler) Shortage(c *fiber.Ctx) error {
	rows, err := h.uc.Shortage(c.Context(), GetAccountID(c), c.Query("status"), c.Query("orderBy"))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(rows), "products": rows})
}

// ShortageReport godoc
// @Summary      Relatório PDF de produtos em falta
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        status   query  string  false  "todos_em_falta (padrão) | zerado | crítico | baixo"
// @Param        orderBy  query  string  false  "criticidade (padrão) | alfabetica"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/shortage/report [get]
func (h *StockHandler) ShortageReport(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.ShortageReport(c.Context(), GetAccountID(c), c.Query("status"), c.Query("orderBy"))
	if err != nil {
		return stockError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="estoque-em-falta.pdf"`)
	return c.Send(pdfBytes)
}

// stockError traduz sentinelas de domínio em códigos HTTP.
func stockError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "produto não encontrado"})
	case errors.Is(err, domain.ErrMovementNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "MOVEMENT_NOT_FOUND", Message: "movimentação não encontrada"})
	case errors.Is(err, domain.ErrAlreadyReversed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_REVERSED", Message: "a movimentação já foi estornada"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryInt64(c *fiber.Ctx, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
