package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/application/usecase"
	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
)

// RectificationHandler propuestas de corrección del libro mayor.
type RectificationHandler struct {
	uc *usecase.RectificationUseCase
}

// NewRectificationHandler construye el handler.
func NewRectificationHandler(uc *usecase.RectificationUseCase) *RectificationHandler {
	return &RectificationHandler{uc: uc}
}

// Create godoc
// @Summary      Proponer rectificación de stock
// @Description  Captura la cantidad vigente como evidencia; la aprobación es un paso aparte.
// @Tags         rectifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRectificationRequest  true  "Propuesta"
// @Success      201  {object}  entity.StockRectification
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rectifications [post]
func (h *RectificationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRectificationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rectification, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "field debe ser balance, liquidated o sales y los códigos son requeridos"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no existe registro de stock para ese par distribuidor/producto"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(rectification)
}

// ListPending godoc
// @Summary      Rectificaciones pendientes de revisión
// @Tags         rectifications
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200  {array}  entity.StockRectification
// @Router       /api/rectifications/pending [get]
func (h *RectificationHandler) ListPending(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}
	items, err := h.uc.ListPending(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if items == nil {
		items = []*entity.StockRectification{}
	}
	return c.JSON(items)
}
