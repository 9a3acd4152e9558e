// Package verification registra recuentos físicos de stock en agroservicios y
// reconcilia la varianza contra el libro mayor.
package verification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
	"github.com/agrovia/liquidacion-api/pkg/logger"
)

// RecordVerificationUseCase aplica la varianza de un recuento físico al libro
// mayor de UN agroservicio. Es un recuento de entidad única: no reutiliza la
// regla de balanceo de asignaciones.
type RecordVerificationUseCase struct {
	retailers     repository.RetailerRepository
	retStock      repository.RetailerStockRepository
	verifications repository.VerificationRepository
	log           *logger.Logger
}

// NewRecordVerificationUseCase construye el caso de uso.
func NewRecordVerificationUseCase(
	retailers repository.RetailerRepository,
	retStock repository.RetailerStockRepository,
	verifications repository.VerificationRepository,
	log *logger.Logger,
) *RecordVerificationUseCase {
	return &RecordVerificationUseCase{
		retailers:     retailers,
		retStock:      retStock,
		verifications: verifications,
		log:           log,
	}
}

// Record procesa el recuento. Por SKU: varianza = actual − esperado; si es
// distinta de cero, current se sobreescribe con el conteo y el acumulado de
// vendido sube en −varianza (el faltante se asume vendido).
//
// El acta de verificación se persiste SIEMPRE, incluso con varianza cero en
// todos los SKUs: un chequeo sin hallazgos también es evidencia.
func (uc *RecordVerificationUseCase) Record(ctx context.Context, verifiedBy string, in dto.RecordVerificationRequest) (*dto.RecordVerificationResponse, error) {
	if in.RetailerCode == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	retailer, err := uc.retailers.GetByCode(ctx, in.RetailerCode)
	if err != nil {
		return nil, err
	}
	if retailer == nil {
		return nil, domain.ErrRetailerNotFound
	}

	now := time.Now()
	adjusted := 0
	lines := make([]entity.VerificationLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		variance := l.ActualQty.Sub(l.ExpectedQty)
		lines = append(lines, entity.VerificationLine{
			ProductCode: l.ProductCode,
			ExpectedQty: l.ExpectedQty,
			ActualQty:   l.ActualQty,
			VarianceQty: variance,
		})
		if variance.IsZero() {
			continue
		}
		adjusted++
		rc := repository.Recount{
			RetailerCode:    in.RetailerCode,
			DistributorCode: in.DistributorCode,
			ProductCode:     l.ProductCode,
			ActualQty:       l.ActualQty,
			SoldDelta:       variance.Neg(),
			Date:            now,
		}
		if err := uc.retStock.ApplyRecount(ctx, rc); err != nil {
			// Mismo criterio que la propagación: se registra y se sigue.
			uc.log.Error().Err(err).
				Str("retailer", in.RetailerCode).
				Str("product", l.ProductCode).
				Msg("ajuste de recuento fallido, se omite")
		}
	}

	v := &entity.RetailerVerification{
		ID:              uuid.New().String(),
		RetailerCode:    in.RetailerCode,
		DistributorCode: in.DistributorCode,
		VerifiedBy:      verifiedBy,
		VerifiedAt:      now,
		Lines:           lines,
		ProofURLs:       in.ProofURLs,
		Notes:           in.Notes,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
	}
	if err := uc.verifications.Create(ctx, v); err != nil {
		return nil, err
	}
	return &dto.RecordVerificationResponse{VerificationID: v.ID, AdjustedSKUs: adjusted}, nil
}
