package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrovia/liquidacion-api/internal/application/bulkimport"
	"github.com/agrovia/liquidacion-api/internal/application/dto"
)

// ImportHandler ingesta masiva de planillas históricas CSV.
type ImportHandler struct {
	pipeline *bulkimport.Pipeline
}

// NewImportHandler construye el handler.
func NewImportHandler(pipeline *bulkimport.Pipeline) *ImportHandler {
	return &ImportHandler{pipeline: pipeline}
}

// Import godoc
// @Summary      Importar planilla histórica
// @Description  Multipart con parte "file" (CSV). latin1=true decodifica Latin-1 en lugar de UTF-8.
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "Planilla CSV"
// @Param        latin1  query     bool    false  "Archivo en Latin-1"
// @Success      200  {object}  dto.ImportSummary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/imports/distributor-stock [post]
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "falta la parte file del multipart"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo abrir el archivo"})
	}
	defer f.Close()

	rows, err := bulkimport.ParseReader(f, c.QueryBool("latin1"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CSV", Message: err.Error()})
	}

	summary, err := h.pipeline.Run(c.Context(), rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}
