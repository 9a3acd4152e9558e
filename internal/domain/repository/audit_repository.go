package repository

import (
	"context"

	"github.com/agrovia/liquidacion-api/internal/domain/entity"
)

// FailedDoc referencia un documento rechazado dentro de un flush masivo.
// Index es la posición dentro del lote entregado; el pipeline lo traduce a
// número de fila del archivo origen.
type FailedDoc struct {
	Index   int
	Message string
}

// LiquidationRepository puerto del registro de actas de liquidación (append-only).
type LiquidationRepository interface {
	Create(ctx context.Context, entry *entity.LiquidationEntry) error
	// CreateMany inserta un lote tolerando fallos por documento: los
	// sobrevivientes quedan insertados y los fallidos se reportan con su índice.
	CreateMany(ctx context.Context, entries []*entity.LiquidationEntry) (inserted int, failed []FailedDoc, err error)
	GetByID(ctx context.Context, id string) (*entity.LiquidationEntry, error)
	ListByDistributor(ctx context.Context, distributorCode string, limit int) ([]*entity.LiquidationEntry, error)
	// UpdateStatus transiciona pending → approved/rejected. Los renglones nunca cambian.
	UpdateStatus(ctx context.Context, id, status, reviewedBy string) error
}

// VerificationRepository puerto de las actas de verificación física (append-only).
type VerificationRepository interface {
	Create(ctx context.Context, v *entity.RetailerVerification) error
	ListByRetailer(ctx context.Context, retailerCode string, limit int) ([]*entity.RetailerVerification, error)
}

// SalesRepository puerto de ventas históricas reconstruidas (append-only).
type SalesRepository interface {
	CreateMany(ctx context.Context, records []*entity.SalesRecord) (inserted int, failed []FailedDoc, err error)
}

// RectificationRepository puerto de solicitudes de rectificación pendientes.
type RectificationRepository interface {
	Create(ctx context.Context, r *entity.StockRectification) error
	ListPending(ctx context.Context, limit int) ([]*entity.StockRectification, error)
}
