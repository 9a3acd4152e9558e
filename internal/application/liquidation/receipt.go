package liquidation

import (
	"context"

	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

// ReceiptUseCase genera el PDF de un acta de liquidación.
type ReceiptUseCase struct {
	entries      repository.LiquidationRepository
	distributors repository.DistributorRepository
	products     repository.ProductRepository
	generator    ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	entries repository.LiquidationRepository,
	distributors repository.DistributorRepository,
	products repository.ProductRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{entries: entries, distributors: distributors, products: products, generator: generator}
}

// GetReceipt carga el acta y sus maestros y devuelve los bytes del PDF.
func (uc *ReceiptUseCase) GetReceipt(ctx context.Context, entryID string) ([]byte, error) {
	entry, err := uc.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	dist, err := uc.distributors.GetByCode(ctx, entry.DistributorCode)
	if err != nil {
		return nil, err
	}

	// Etiquetas de unidad por SKU para la tabla del PDF; SKU ausente queda sin etiqueta.
	unitLabels := make(map[string]string, len(entry.Items))
	for _, it := range entry.Items {
		if _, ok := unitLabels[it.ProductCode]; ok {
			continue
		}
		product, err := uc.products.GetByCode(ctx, it.ProductCode)
		if err == nil && product != nil {
			unitLabels[it.ProductCode] = product.UnitLabel
		}
	}
	return uc.generator.GenerateReceipt(ctx, entry, dist, unitLabels)
}
