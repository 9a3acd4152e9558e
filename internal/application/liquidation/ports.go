package liquidation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agrovia/liquidacion-api/internal/domain/entity"
)

// ProofUploader sube soportes (fotos, firmas) al object storage y devuelve la URL pública.
type ProofUploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// ReceiptGenerator genera la representación PDF de un acta de liquidación.
type ReceiptGenerator interface {
	GenerateReceipt(
		ctx context.Context,
		entry *entity.LiquidationEntry,
		distributor *entity.Distributor,
		unitLabels map[string]string,
	) ([]byte, error)
}

// round2 redondeo monetario estándar de la aplicación.
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
