package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/application/liquidation"
	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

// LiquidationHandler maneja remisiones de liquidación y su ciclo de revisión.
type LiquidationHandler struct {
	submitUC  *liquidation.SubmitLiquidationUseCase
	reviewUC  *liquidation.ReviewEntryUseCase
	receiptUC *liquidation.ReceiptUseCase
	entries   repository.LiquidationRepository
}

// NewLiquidationHandler construye el handler.
func NewLiquidationHandler(
	submitUC *liquidation.SubmitLiquidationUseCase,
	reviewUC *liquidation.ReviewEntryUseCase,
	receiptUC *liquidation.ReceiptUseCase,
	entries repository.LiquidationRepository,
) *LiquidationHandler {
	return &LiquidationHandler{submitUC: submitUC, reviewUC: reviewUC, receiptUC: receiptUC, entries: entries}
}

// Submit godoc
// @Summary      Registrar liquidación
// @Description  Multipart: parte "data" con el JSON de la remisión, partes "proofs" con fotos y parte "signature" con la firma.
// @Tags         liquidations
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  dto.SubmitLiquidationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ViolationsResponse
// @Router       /api/liquidations [post]
func (h *LiquidationHandler) Submit(c *fiber.Ctx) error {
	in, proofs, signature, err := parseSubmitForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	if in.DistributorCode == "" || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "distributor_code e items son requeridos"})
	}

	entryID, violations, err := h.submitUC.Submit(c.Context(), liquidation.SubmitInput{
		DistributorCode: in.DistributorCode,
		SubmittedBy:     GetUserID(c),
		Items:           in.Items,
		Metadata:        in.Metadata,
		Proofs:          proofs,
		Signature:       signature,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "distribuidor no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if len(violations) > 0 {
		// Admisión todo-o-nada: TODAS las violaciones en una sola respuesta.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ViolationsResponse{
			Code:       "ALLOCATION_REJECTED",
			Violations: violations,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SubmitLiquidationResponse{EntryID: entryID})
}

// parseSubmitForm extrae la parte "data" (JSON) y los adjuntos del multipart.
// También acepta application/json directo cuando no hay soportes que subir.
func parseSubmitForm(c *fiber.Ctx) (*dto.SubmitLiquidationRequest, []dto.ProofFile, *dto.ProofFile, error) {
	var in dto.SubmitLiquidationRequest

	form, err := c.MultipartForm()
	if err != nil {
		// Sin multipart: remisión JSON sin adjuntos.
		if err := c.BodyParser(&in); err != nil {
			return nil, nil, nil, errors.New("cuerpo inválido: se espera multipart con parte data o JSON")
		}
		return &in, nil, nil, nil
	}

	values := form.Value["data"]
	if len(values) == 0 {
		return nil, nil, nil, errors.New("falta la parte data")
	}
	if err := json.Unmarshal([]byte(values[0]), &in); err != nil {
		return nil, nil, nil, errors.New("parte data no es JSON válido")
	}

	var proofs []dto.ProofFile
	for _, fh := range form.File["proofs"] {
		pf, err := readFormFile(fh)
		if err != nil {
			return nil, nil, nil, err
		}
		proofs = append(proofs, *pf)
	}

	var signature *dto.ProofFile
	if fhs := form.File["signature"]; len(fhs) > 0 {
		signature, err = readFormFile(fhs[0])
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return &in, proofs, signature, nil
}

func readFormFile(fh *multipart.FileHeader) (*dto.ProofFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("no se pudo leer el adjunto " + fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.New("no se pudo leer el adjunto " + fh.Filename)
	}
	return &dto.ProofFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// GetByID godoc
// @Summary      Obtener acta por ID
// @Tags         liquidations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del acta"
// @Success      200  {object}  entity.LiquidationEntry
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/liquidations/{id} [get]
func (h *LiquidationHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.entries.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "acta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(entry)
}

// ListByDistributor godoc
// @Summary      Listar actas de un distribuidor
// @Tags         liquidations
// @Security     Bearer
// @Produce      json
// @Param        code   path   string  true   "Código del distribuidor"
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200  {array}  entity.LiquidationEntry
// @Router       /api/liquidations/distributor/{code} [get]
func (h *LiquidationHandler) ListByDistributor(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	entries, err := h.entries.ListByDistributor(c.Context(), c.Params("code"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if entries == nil {
		entries = []*entity.LiquidationEntry{}
	}
	return c.JSON(entries)
}

// UpdateStatus godoc
// @Summary      Aprobar o rechazar un acta pendiente
// @Tags         liquidations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del acta"
// @Param        body  body  dto.UpdateEntryStatusRequest  true  "approved | rejected"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/liquidations/{id}/status [post]
func (h *LiquidationHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateEntryStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.reviewUC.Review(c.Context(), c.Params("id"), in.Status, GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser approved o rejected"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "acta no encontrada"})
		case errors.Is(err, domain.ErrEntryNotPending):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_PENDING", Message: "el acta ya fue revisada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt godoc
// @Summary      PDF del acta de liquidación
// @Tags         liquidations
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del acta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/liquidations/{id}/receipt [get]
func (h *LiquidationHandler) Receipt(c *fiber.Ctx) error {
	pdfBytes, err := h.receiptUC.GetReceipt(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "acta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="acta-liquidacion.pdf"`)
	return c.Send(pdfBytes)
}
