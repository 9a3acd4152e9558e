// Package bulkimport reconstruye historia de libro mayor a partir de cargas
// tabulares: ventas mensuales, actas de liquidación fechadas y totales crudos
// por distribuidor × SKU, procesados por lotes sin abortar por filas malas.
package bulkimport

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
	"github.com/agrovia/liquidacion-api/pkg/logger"
)

// processedMonths los seis meses de la campaña que la ingesta materializa
// como registros fechados (abril a septiembre).
var processedMonths = []time.Month{
	time.April, time.May, time.June, time.July, time.August, time.September,
}

// periodEndMonth marca el cierre del período: las liquidaciones agregadas sin
// detalle mensual se fechan al último día de septiembre.
const periodEndMonth = time.September

// Config parámetros de la corrida.
type Config struct {
	BatchSize int // documentos por flush; <=0 usa 500
	MaxErrors int // mensajes de error retenidos en el resumen; <=0 usa 100
}

// Pipeline ingesta masiva de históricos. El caché de precios se construye UNA
// vez al inicio de la corrida y es de solo lectura durante toda la ejecución.
type Pipeline struct {
	products  repository.ProductRepository
	distStock repository.DistributorStockRepository
	entries   repository.LiquidationRepository
	sales     repository.SalesRepository
	batchSize int
	maxErrors int
	log       *logger.Logger
}

// NewPipeline construye el pipeline.
func NewPipeline(
	products repository.ProductRepository,
	distStock repository.DistributorStockRepository,
	entries repository.LiquidationRepository,
	sales repository.SalesRepository,
	cfg Config,
	log *logger.Logger,
) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = 100
	}
	return &Pipeline{
		products:  products,
		distStock: distStock,
		entries:   entries,
		sales:     sales,
		batchSize: cfg.BatchSize,
		maxErrors: cfg.MaxErrors,
		log:       log,
	}
}

// run estado mutable de una corrida.
type run struct {
	summary dto.ImportSummary
	prices  map[string]decimal.Decimal

	pendingEntries []*entity.LiquidationEntry
	entryRows      []int // fila origen de cada acta pendiente
	pendingSales   []*entity.SalesRecord
	salesRows      []int
	droppedErrors  int
}

// Run procesa todas las filas. Nunca aborta por una fila: los errores quedan
// en el resumen con referencia a su número de fila.
func (p *Pipeline) Run(ctx context.Context, rows []Row) (*dto.ImportSummary, error) {
	prices, err := p.products.PriceMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("construir caché de precios: %w", err)
	}

	r := &run{prices: prices}
	r.summary.TotalRows = len(rows)

	for _, row := range rows {
		p.processRow(ctx, r, row)
		if len(r.pendingEntries) >= p.batchSize {
			p.flushEntries(ctx, r)
		}
		if len(r.pendingSales) >= p.batchSize {
			p.flushSales(ctx, r)
		}
	}
	p.flushEntries(ctx, r)
	p.flushSales(ctx, r)

	if r.droppedErrors > 0 {
		r.summary.Errors = append(r.summary.Errors,
			fmt.Sprintf("... y %d errores más omitidos", r.droppedErrors))
	}
	if r.summary.Errors == nil {
		r.summary.Errors = []string{}
	}

	p.log.Info().
		Int("total", r.summary.TotalRows).
		Int("created", r.summary.Created).
		Int("updated", r.summary.Updated).
		Int("errors", len(r.summary.Errors)).
		Msg("ingesta masiva terminada")
	return &r.summary, nil
}

// processRow reconstruye los registros fechados de una fila y hace el upsert
// incondicional de los totales crudos del distribuidor.
func (p *Pipeline) processRow(ctx context.Context, r *run, row Row) {
	if row.DistributorCode == "" || row.ProductCode == "" {
		p.addError(r, row.Number, "distribuidor o producto en blanco")
		return
	}
	year := row.Year
	if year == 0 {
		year = time.Now().Year()
	}

	// Producto ausente del catálogo: precio cero y la fila sigue. Lenidad
	// deliberada para backfill histórico; re-correr el archivo produce los
	// mismos registros a precio cero.
	price := r.prices[row.ProductCode]

	liquidationEmitted := false
	for _, month := range processedMonths {
		if qty, ok := row.MonthlySales[month]; ok && !qty.IsZero() {
			r.pendingSales = append(r.pendingSales, p.buildSalesRecord(row, month, year, qty, price))
			r.salesRows = append(r.salesRows, row.Number)
		}
		if qty, ok := row.MonthlyLiquidation[month]; ok && !qty.IsZero() {
			r.pendingEntries = append(r.pendingEntries,
				p.buildBulkEntry(row, qty, price, lastDayOfMonth(year, month)))
			r.entryRows = append(r.entryRows, row.Number)
			liquidationEmitted = true
		}
	}

	// Sin detalle mensual pero con liquidado agregado positivo: exactamente UN
	// acta de respaldo fechada al cierre del período, para no perder volumen
	// histórico cuando falta granularidad mensual.
	if !liquidationEmitted && row.LiquidationQty.IsPositive() {
		r.pendingEntries = append(r.pendingEntries,
			p.buildBulkEntry(row, row.LiquidationQty, price, lastDayOfMonth(year, periodEndMonth)))
		r.entryRows = append(r.entryRows, row.Number)
	}

	// Upsert incondicional de los totales crudos, independiente de lo anterior.
	rec := &entity.DistributorStock{
		DistributorCode:  row.DistributorCode,
		ProductCode:      row.ProductCode,
		OpeningQty:       row.OpeningQty,
		OpeningAmount:    row.OpeningQty.Mul(price).Round(2),
		BalanceQty:       row.ClosingQty,
		BalanceAmount:    row.ClosingQty.Mul(price).Round(2),
		LiquidatedQty:    row.LiquidationQty,
		LiquidatedAmount: row.LiquidationQty.Mul(price).Round(2),
		SalesQty:         row.NetSalesQty,
		SalesAmount:      row.NetSalesQty.Mul(price).Round(2),
		UpdatedBy:        row.UpdatedBy,
	}
	created, err := p.distStock.UpsertTotals(ctx, rec)
	if err != nil {
		p.addError(r, row.Number, fmt.Sprintf("upsert de totales: %v", err))
		return
	}
	if created {
		r.summary.Created++
	} else {
		r.summary.Updated++
	}
}

func (p *Pipeline) buildSalesRecord(row Row, month time.Month, year int, qty, price decimal.Decimal) *entity.SalesRecord {
	return &entity.SalesRecord{
		ID:              uuid.New().String(),
		InvoiceID:       syntheticInvoiceID(row.DistributorCode, month, year),
		DistributorCode: row.DistributorCode,
		ProductCode:     row.ProductCode,
		Quantity:        qty,
		Amount:          qty.Mul(price).Round(2),
		Date:            lastDayOfMonth(year, month),
		CreatedBy:       row.UpdatedBy,
		CreatedAt:       time.Now(),
	}
}

// buildBulkEntry acta con un único renglón agricultor, pre-aprobada: la
// historia masiva es confiable y no pasa por revisión de tiempo real.
func (p *Pipeline) buildBulkEntry(row Row, qty, price decimal.Decimal, date time.Time) *entity.LiquidationEntry {
	return &entity.LiquidationEntry{
		ID:              uuid.New().String(),
		DistributorCode: row.DistributorCode,
		SubmittedBy:     row.UpdatedBy,
		SubmittedAt:     time.Now(),
		EntryDate:       date,
		Items: []entity.LiquidationItem{{
			ProductCode:  row.ProductCode,
			OpeningQty:   row.OpeningQty,
			BalanceQty:   row.ClosingQty,
			FarmerQty:    qty,
			FarmerAmount: qty.Mul(price).Round(2),
			UnitPrice:    price,
		}},
		Status:     entity.EntryStatusApproved,
		Source:     entity.EntrySourceBulk,
		InvoiceRef: syntheticInvoiceID(row.DistributorCode, date.Month(), date.Year()),
	}
}

// flushEntries envía el lote tolerando fallos por documento: una mala acta no
// aborta a sus compañeras de lote y queda reportada con su fila origen.
func (p *Pipeline) flushEntries(ctx context.Context, r *run) {
	if len(r.pendingEntries) == 0 {
		return
	}
	_, failed, err := p.entries.CreateMany(ctx, r.pendingEntries)
	if err != nil {
		p.addError(r, 0, fmt.Sprintf("flush de actas: %v", err))
	}
	for _, f := range failed {
		rowNum := 0
		if f.Index < len(r.entryRows) {
			rowNum = r.entryRows[f.Index]
		}
		p.addError(r, rowNum, fmt.Sprintf("acta rechazada: %s", f.Message))
	}
	r.pendingEntries = r.pendingEntries[:0]
	r.entryRows = r.entryRows[:0]
}

func (p *Pipeline) flushSales(ctx context.Context, r *run) {
	if len(r.pendingSales) == 0 {
		return
	}
	_, failed, err := p.sales.CreateMany(ctx, r.pendingSales)
	if err != nil {
		p.addError(r, 0, fmt.Sprintf("flush de ventas: %v", err))
	}
	for _, f := range failed {
		rowNum := 0
		if f.Index < len(r.salesRows) {
			rowNum = r.salesRows[f.Index]
		}
		p.addError(r, rowNum, fmt.Sprintf("venta rechazada: %s", f.Message))
	}
	r.pendingSales = r.pendingSales[:0]
	r.salesRows = r.salesRows[:0]
}

func (p *Pipeline) addError(r *run, rowNum int, msg string) {
	if len(r.summary.Errors) >= p.maxErrors {
		r.droppedErrors++
		return
	}
	if rowNum > 0 {
		msg = fmt.Sprintf("fila %d: %s", rowNum, msg)
	}
	r.summary.Errors = append(r.summary.Errors, msg)
}

func syntheticInvoiceID(distributorCode string, month time.Month, year int) string {
	return fmt.Sprintf("%s/%02d/%d", distributorCode, int(month), year)
}

// lastDayOfMonth día 0 del mes siguiente = último día del mes.
func lastDayOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}
