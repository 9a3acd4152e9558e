package liquidation

import (
	"context"

	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

// ReviewEntryUseCase transiciona el estado de aprobación de un acta.
// Los renglones del acta nunca cambian; solo pending → approved/rejected.
type ReviewEntryUseCase struct {
	entries repository.LiquidationRepository
}

// NewReviewEntryUseCase construye el caso de uso.
func NewReviewEntryUseCase(entries repository.LiquidationRepository) *ReviewEntryUseCase {
	return &ReviewEntryUseCase{entries: entries}
}

// Review aplica la transición de estado. ErrEntryNotPending si el acta ya fue revisada.
func (uc *ReviewEntryUseCase) Review(ctx context.Context, entryID, status, reviewedBy string) error {
	if status != entity.EntryStatusApproved && status != entity.EntryStatusRejected {
		return domain.ErrInvalidInput
	}
	entry, err := uc.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	if entry.Status != entity.EntryStatusPending {
		return domain.ErrEntryNotPending
	}
	return uc.entries.UpdateStatus(ctx, entryID, status, reviewedBy)
}
