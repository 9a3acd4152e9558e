package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

// Campos del libro mayor que admiten rectificación.
var rectifiableFields = map[string]bool{
	"balance":    true,
	"liquidated": true,
	"sales":      true,
}

// RectificationUseCase registra propuestas de corrección del libro mayor.
// La propuesta NUNCA toca el libro mayor: queda pendiente para revisión manual.
type RectificationUseCase struct {
	rectifications repository.RectificationRepository
	distStock      repository.DistributorStockRepository
}

// NewRectificationUseCase construye el caso de uso.
func NewRectificationUseCase(rectifications repository.RectificationRepository, distStock repository.DistributorStockRepository) *RectificationUseCase {
	return &RectificationUseCase{rectifications: rectifications, distStock: distStock}
}

// Create captura el valor vigente del campo junto a la propuesta, para que el
// revisor vea exactamente qué diferencia está aprobando.
func (uc *RectificationUseCase) Create(ctx context.Context, requestedBy string, in dto.CreateRectificationRequest) (*entity.StockRectification, error) {
	if in.DistributorCode == "" || in.ProductCode == "" || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if !rectifiableFields[in.Field] {
		return nil, domain.ErrInvalidInput
	}
	stock, err := uc.distStock.Get(ctx, in.DistributorCode, in.ProductCode)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	r := &entity.StockRectification{
		ID:              uuid.New().String(),
		DistributorCode: in.DistributorCode,
		ProductCode:     in.ProductCode,
		Field:           in.Field,
		CurrentQty:      fieldValue(stock, in.Field),
		ProposedQty:     in.ProposedQty,
		Reason:          in.Reason,
		Status:          "pending",
		RequestedBy:     requestedBy,
		RequestedAt:     time.Now(),
	}
	if err := uc.rectifications.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListPending lista propuestas pendientes de revisión.
func (uc *RectificationUseCase) ListPending(ctx context.Context, limit int) ([]*entity.StockRectification, error) {
	return uc.rectifications.ListPending(ctx, limit)
}

func fieldValue(s *entity.DistributorStock, field string) decimal.Decimal {
	switch field {
	case "balance":
		return s.BalanceQty
	case "liquidated":
		return s.LiquidatedQty
	default:
		return s.SalesQty
	}
}
