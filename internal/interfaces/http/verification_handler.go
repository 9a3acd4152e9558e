package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/application/verification"
	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

// VerificationHandler maneja actas de verificación física en agroservicios.
type VerificationHandler struct {
	recordUC      *verification.RecordVerificationUseCase
	verifications repository.VerificationRepository
}

// NewVerificationHandler construye el handler.
func NewVerificationHandler(recordUC *verification.RecordVerificationUseCase, verifications repository.VerificationRepository) *VerificationHandler {
	return &VerificationHandler{recordUC: recordUC, verifications: verifications}
}

// Record godoc
// @Summary      Registrar verificación física
// @Description  Recuento en sitio por SKU; las varianzas ajustan el stock del agroservicio.
// @Tags         verifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordVerificationRequest  true  "Recuento"
// @Success      201  {object}  dto.RecordVerificationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/verifications [post]
func (h *VerificationHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordVerificationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.recordUC.Record(c.Context(), GetUserID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "retailer_code, distributor_code y lines son requeridos"})
		case errors.Is(err, domain.ErrRetailerNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "agroservicio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListByRetailer godoc
// @Summary      Historial de verificaciones de un agroservicio
// @Tags         verifications
// @Security     Bearer
// @Produce      json
// @Param        code   path   string  true   "Código del agroservicio"
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200  {array}  entity.RetailerVerification
// @Router       /api/verifications/retailer/{code} [get]
func (h *VerificationHandler) ListByRetailer(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	items, err := h.verifications.ListByRetailer(c.Context(), c.Params("code"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if items == nil {
		items = []*entity.RetailerVerification{}
	}
	return c.JSON(items)
}
