package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/application/metrics"
	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

// MetricsHandler expone roll-ups de solo lectura del libro mayor.
type MetricsHandler struct {
	uc *metrics.GetMetricsUseCase
}

// NewMetricsHandler construye el handler.
func NewMetricsHandler(uc *metrics.GetMetricsUseCase) *MetricsHandler {
	return &MetricsHandler{uc: uc}
}

// Get godoc
// @Summary      Métricas de liquidación por alcance
// @Description  scope=distributors requiere codes (CSV); territory/region/zone requieren value.
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        scope  query  string  true   "distributors | territory | region | zone"
// @Param        value  query  string  false  "Territorio/región/zona"
// @Param        codes  query  string  false  "Códigos de distribuidor separados por coma"
// @Success      200  {object}  dto.LiquidationMetricsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/liquidation [get]
func (h *MetricsHandler) Get(c *fiber.Ctx) error {
	scope := repository.MetricsScope{
		Kind:  c.Query("scope"),
		Value: c.Query("value"),
	}
	if codes := c.Query("codes"); codes != "" {
		for _, code := range strings.Split(codes, ",") {
			if code = strings.TrimSpace(code); code != "" {
				scope.DistributorCodes = append(scope.DistributorCodes, code)
			}
		}
	}

	result, err := h.uc.Get(c.Context(), scope)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "alcance inválido: revisar scope, value y codes"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}
