package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/application/usecase"
	"github.com/agrovia/liquidacion-api/internal/domain"
)

// DistributorHandler CRUD del maestro de distribuidores.
type DistributorHandler struct {
	uc *usecase.DistributorUseCase
}

// NewDistributorHandler construye el handler.
func NewDistributorHandler(uc *usecase.DistributorUseCase) *DistributorHandler {
	return &DistributorHandler{uc: uc}
}

// Create godoc
// @Summary      Crear distribuidor
// @Description  Territory, region y zone son obligatorios: alimentan los alcances de métricas.
// @Tags         distributors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDistributorRequest  true  "Distribuidor"
// @Success      201  {object}  dto.DistributorResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/distributors [post]
func (h *DistributorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDistributorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	distributor, err := h.uc.Create(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code, name, territory, region y zone son requeridos"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un distribuidor con ese código"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(distributor)
}

// GetByCode godoc
// @Summary      Obtener distribuidor por código
// @Tags         distributors
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código"
// @Success      200  {object}  dto.DistributorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/distributors/{code} [get]
func (h *DistributorHandler) GetByCode(c *fiber.Ctx) error {
	distributor, err := h.uc.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "distribuidor no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(distributor)
}

// List godoc
// @Summary      Listar distribuidores
// @Tags         distributors
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  dto.DistributorResponse
// @Router       /api/distributors [get]
func (h *DistributorHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	distributors, err := h.uc.List(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if distributors == nil {
		distributors = []*dto.DistributorResponse{}
	}
	return c.JSON(distributors)
}
