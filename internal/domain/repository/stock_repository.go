package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrovia/liquidacion-api/internal/domain/entity"
)

// BalanceUpdate aplica una liquidación validada a un registro distribuidor × SKU.
// El balance se SOBREESCRIBE; los acumulados de liquidado y ventas se suman.
type BalanceUpdate struct {
	DistributorCode  string
	ProductCode      string
	BalanceQty       decimal.Decimal
	BalanceAmount    decimal.Decimal
	LiquidatedQty    decimal.Decimal // incremento, puede ser cero
	LiquidatedAmount decimal.Decimal
	SalesQty         decimal.Decimal // incremento, puede ser cero
	SalesAmount      decimal.Decimal
	UpdatedBy        string
}

// DistributorStockRepository puerto del libro mayor de distribuidores.
//
// Los incrementos son atómicos a nivel de fila (x = x + n): dos remisiones
// concurrentes sobre SKUs distintos no interfieren. La escritura absoluta del
// balance sobre el mismo par distribuidor+SKU es last-write-wins.
type DistributorStockRepository interface {
	Get(ctx context.Context, distributorCode, productCode string) (*entity.DistributorStock, error)
	// SetBalanceAndAccumulate hace upsert: crea la fila si no existe, fija el
	// balance e incrementa los acumulados.
	SetBalanceAndAccumulate(ctx context.Context, upd BalanceUpdate) error
	// UpsertTotals sobreescribe los totales crudos de una fila (ingesta masiva).
	// Devuelve true si la fila fue creada, false si fue actualizada.
	UpsertTotals(ctx context.Context, rec *entity.DistributorStock) (created bool, err error)
}

// Transfer una transferencia de stock distribuidor → agroservicio para un SKU.
type Transfer struct {
	RetailerCode    string
	RetailerName    string
	DistributorCode string
	ProductCode     string
	Quantity        decimal.Decimal
	UnitValue       decimal.Decimal
	Date            time.Time
}

// Recount resultado del recuento físico de un SKU en un agroservicio.
// SoldDelta = −varianza: el faltante frente a lo esperado se asume vendido.
type Recount struct {
	RetailerCode    string
	DistributorCode string
	ProductCode     string
	ActualQty       decimal.Decimal
	SoldDelta       decimal.Decimal
	Date            time.Time
}

// RetailerStockRepository puerto del libro mayor de agroservicios.
type RetailerStockRepository interface {
	Get(ctx context.Context, retailerCode, distributorCode, productCode string) (*entity.RetailerStock, error)
	// ApplyTransfer hace upsert: el primer contacto inicializa el registro con
	// received = current = cantidad; contactos posteriores incrementan ambos.
	// Siempre estampa fecha y cantidad del último recibo.
	ApplyTransfer(ctx context.Context, t Transfer) error
	// ApplyRecount sobreescribe current con el conteo físico e incrementa el
	// acumulado de vendido por la varianza con signo.
	ApplyRecount(ctx context.Context, rc Recount) error
}
