package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/application/usecase"
	"github.com/agrovia/liquidacion-api/internal/domain"
)

// RetailerHandler CRUD del maestro de agroservicios.
type RetailerHandler struct {
	uc *usecase.RetailerUseCase
}

// NewRetailerHandler construye el handler.
func NewRetailerHandler(uc *usecase.RetailerUseCase) *RetailerHandler {
	return &RetailerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear agroservicio
// @Tags         retailers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRetailerRequest  true  "Agroservicio"
// @Success      201  {object}  dto.RetailerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/retailers [post]
func (h *RetailerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRetailerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	retailer, err := h.uc.Create(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code y name son requeridos"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un agroservicio con ese código"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(retailer)
}

// GetByCode godoc
// @Summary      Obtener agroservicio por código
// @Tags         retailers
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código"
// @Success      200  {object}  dto.RetailerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/retailers/{code} [get]
func (h *RetailerHandler) GetByCode(c *fiber.Ctx) error {
	retailer, err := h.uc.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, domain.ErrRetailerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "agroservicio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(retailer)
}

// List godoc
// @Summary      Listar agroservicios
// @Tags         retailers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  dto.RetailerResponse
// @Router       /api/retailers [get]
func (h *RetailerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	retailers, err := h.uc.List(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if retailers == nil {
		retailers = []*dto.RetailerResponse{}
	}
	return c.JSON(retailers)
}
