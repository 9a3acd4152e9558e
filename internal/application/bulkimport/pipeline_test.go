package bulkimport_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/liquidacion-api/internal/application/bulkimport"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
	"github.com/agrovia/liquidacion-api/pkg/logger"
)

// ─── fakes ───────────────────────────────────────────────────────────────────

type fakeProducts struct {
	prices map[string]decimal.Decimal
	err    error
}

func (f *fakeProducts) Create(_ context.Context, _ *entity.Product) error { return nil }
func (f *fakeProducts) Update(_ context.Context, _ *entity.Product) error { return nil }
func (f *fakeProducts) GetByCode(_ context.Context, _ string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) List(_ context.Context, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) PriceMap(_ context.Context) (map[string]decimal.Decimal, error) {
	return f.prices, f.err
}

type fakeDistStock struct {
	rows      map[string]*entity.DistributorStock
	upsertErr error
}

func stockKey(d, p string) string { return d + "|" + p }

func (f *fakeDistStock) Get(_ context.Context, d, p string) (*entity.DistributorStock, error) {
	return f.rows[stockKey(d, p)], nil
}
func (f *fakeDistStock) SetBalanceAndAccumulate(_ context.Context, _ repository.BalanceUpdate) error {
	return nil
}
func (f *fakeDistStock) UpsertTotals(_ context.Context, rec *entity.DistributorStock) (bool, error) {
	if f.upsertErr != nil {
		return false, f.upsertErr
	}
	k := stockKey(rec.DistributorCode, rec.ProductCode)
	_, existed := f.rows[k]
	f.rows[k] = rec
	return !existed, nil
}

type fakeEntries struct {
	created    []*entity.LiquidationEntry
	batches    int
	failEveryN int // cada N-ésimo documento del lote falla; 0 = nunca
}

func (f *fakeEntries) Create(_ context.Context, e *entity.LiquidationEntry) error {
	f.created = append(f.created, e)
	return nil
}
func (f *fakeEntries) CreateMany(_ context.Context, entries []*entity.LiquidationEntry) (int, []repository.FailedDoc, error) {
	f.batches++
	var failed []repository.FailedDoc
	for i, e := range entries {
		if f.failEveryN > 0 && (i+1)%f.failEveryN == 0 {
			failed = append(failed, repository.FailedDoc{Index: i, Message: "clave duplicada"})
			continue
		}
		f.created = append(f.created, e)
	}
	return len(entries) - len(failed), failed, nil
}
func (f *fakeEntries) GetByID(_ context.Context, _ string) (*entity.LiquidationEntry, error) {
	return nil, nil
}
func (f *fakeEntries) ListByDistributor(_ context.Context, _ string, _ int) ([]*entity.LiquidationEntry, error) {
	return nil, nil
}
func (f *fakeEntries) UpdateStatus(_ context.Context, _, _, _ string) error { return nil }

type fakeSales struct {
	created []*entity.SalesRecord
	err     error
}

func (f *fakeSales) CreateMany(_ context.Context, records []*entity.SalesRecord) (int, []repository.FailedDoc, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	f.created = append(f.created, records...)
	return len(records), nil, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

type pipelineFixture struct {
	products  *fakeProducts
	distStock *fakeDistStock
	entries   *fakeEntries
	sales     *fakeSales
	pipeline  *bulkimport.Pipeline
}

func newFixture(cfg bulkimport.Config) *pipelineFixture {
	f := &pipelineFixture{
		products: &fakeProducts{prices: map[string]decimal.Decimal{
			"UREA-46": decimal.NewFromInt(10),
		}},
		distStock: &fakeDistStock{rows: map[string]*entity.DistributorStock{}},
		entries:   &fakeEntries{},
		sales:     &fakeSales{},
	}
	f.pipeline = bulkimport.NewPipeline(f.products, f.distStock, f.entries, f.sales, cfg, logger.Nop())
	return f
}

func baseRow(number int) bulkimport.Row {
	return bulkimport.Row{
		Number:             number,
		DistributorCode:    "D1",
		ProductCode:        "UREA-46",
		UpdatedBy:          "ana",
		Year:               2026,
		OpeningQty:         decimal.NewFromInt(200),
		ClosingQty:         decimal.NewFromInt(150),
		MonthlySales:       map[time.Month]decimal.Decimal{},
		MonthlyLiquidation: map[time.Month]decimal.Decimal{},
	}
}

// ─── pruebas ─────────────────────────────────────────────────────────────────

func TestRun_MesConMovimientoEmiteVentaYActa(t *testing.T) {
	f := newFixture(bulkimport.Config{})
	row := baseRow(2)
	row.MonthlySales[time.April] = decimal.NewFromInt(30)
	row.MonthlyLiquidation[time.April] = decimal.NewFromInt(20)
	row.LiquidationQty = decimal.NewFromInt(20)

	summary, err := f.pipeline.Run(context.Background(), []bulkimport.Row{row})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRows)
	assert.Equal(t, 1, summary.Created)
	assert.Empty(t, summary.Errors)

	// Una venta de abril fechada al último día del mes.
	require.Len(t, f.sales.created, 1)
	sale := f.sales.created[0]
	assert.Equal(t, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), sale.Date)
	assert.Equal(t, "D1/04/2026", sale.InvoiceID)
	assert.True(t, sale.Amount.Equal(decimal.NewFromInt(300)))

	// Un acta de abril y NINGUNA de respaldo: el detalle mensual ya cubre el total.
	require.Len(t, f.entries.created, 1)
	e := f.entries.created[0]
	assert.Equal(t, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), e.EntryDate)
	assert.Equal(t, entity.EntryStatusApproved, e.Status)
	assert.Equal(t, entity.EntrySourceBulk, e.Source)
	require.Len(t, e.Items, 1)
	assert.True(t, e.Items[0].FarmerQty.Equal(decimal.NewFromInt(20)))
	assert.True(t, e.Items[0].FarmerAmount.Equal(decimal.NewFromInt(200)))
}

func TestRun_SinDetalleMensualEmiteActaDeRespaldo(t *testing.T) {
	f := newFixture(bulkimport.Config{})
	row := baseRow(2)
	row.LiquidationQty = decimal.NewFromInt(120)

	summary, err := f.pipeline.Run(context.Background(), []bulkimport.Row{row})
	require.NoError(t, err)
	assert.Empty(t, summary.Errors)
	assert.Empty(t, f.sales.created)

	// Exactamente un acta con el agregado completo, fechada al cierre del período.
	require.Len(t, f.entries.created, 1)
	e := f.entries.created[0]
	assert.Equal(t, time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC), e.EntryDate)
	assert.True(t, e.Items[0].FarmerQty.Equal(decimal.NewFromInt(120)))
}

func TestRun_CodigosEnBlancoSeReportanSinAbortar(t *testing.T) {
	f := newFixture(bulkimport.Config{})
	bad := baseRow(2)
	bad.ProductCode = ""
	good := baseRow(3)
	good.LiquidationQty = decimal.NewFromInt(5)

	summary, err := f.pipeline.Run(context.Background(), []bulkimport.Row{bad, good})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, 1, summary.Created)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "fila 2")
	assert.Len(t, f.entries.created, 1)
}

func TestRun_ProductoSinPrecioUsaMontoCero(t *testing.T) {
	f := newFixture(bulkimport.Config{})
	row := baseRow(2)
	row.ProductCode = "DESCONOCIDO"
	row.LiquidationQty = decimal.NewFromInt(40)

	summary, err := f.pipeline.Run(context.Background(), []bulkimport.Row{row})
	require.NoError(t, err)
	assert.Empty(t, summary.Errors)

	require.Len(t, f.entries.created, 1)
	assert.True(t, f.entries.created[0].Items[0].FarmerAmount.IsZero())
	stored := f.distStock.rows[stockKey("D1", "DESCONOCIDO")]
	require.NotNil(t, stored)
	assert.True(t, stored.OpeningAmount.IsZero())
}

func TestRun_RecorridaRepetidaEsIdempotente(t *testing.T) {
	f := newFixture(bulkimport.Config{})
	row := baseRow(2)
	row.ProductCode = "DESCONOCIDO"
	row.LiquidationQty = decimal.NewFromInt(40)
	rows := []bulkimport.Row{row}

	summary1, err := f.pipeline.Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, summary1.Created)
	assert.Equal(t, 0, summary1.Updated)
	first := *f.distStock.rows[stockKey("D1", "DESCONOCIDO")]

	// La segunda corrida sobre las mismas filas actualiza en lugar de crear y
	// deja el registro idéntico: mismo producto sin precio, mismos montos en cero.
	summary2, err := f.pipeline.Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Empty(t, summary2.Errors)
	assert.Equal(t, 0, summary2.Created)
	assert.Equal(t, 1, summary2.Updated)

	second := f.distStock.rows[stockKey("D1", "DESCONOCIDO")]
	require.NotNil(t, second)
	assert.True(t, second.OpeningQty.Equal(first.OpeningQty))
	assert.True(t, second.OpeningAmount.IsZero())
	assert.True(t, second.BalanceQty.Equal(first.BalanceQty))
	assert.True(t, second.BalanceAmount.IsZero())
	assert.True(t, second.LiquidatedQty.Equal(first.LiquidatedQty))
	assert.True(t, second.LiquidatedAmount.IsZero())
}

func TestRun_UpsertCuentaCreadosYActualizados(t *testing.T) {
	f := newFixture(bulkimport.Config{})
	rows := []bulkimport.Row{baseRow(2), baseRow(3)} // mismo par distribuidor+SKU

	summary, err := f.pipeline.Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
}

func TestRun_FalloParcialDelLoteReportaFilaOrigen(t *testing.T) {
	f := newFixture(bulkimport.Config{})
	f.entries.failEveryN = 2 // el segundo documento de cada lote falla

	r1 := baseRow(2)
	r1.LiquidationQty = decimal.NewFromInt(10)
	r2 := baseRow(3)
	r2.ProductCode = "OTRO"
	r2.LiquidationQty = decimal.NewFromInt(15)

	summary, err := f.pipeline.Run(context.Background(), []bulkimport.Row{r1, r2})
	require.NoError(t, err)

	// El sobreviviente queda insertado y el fallido se reporta con su fila.
	assert.Len(t, f.entries.created, 1)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "fila 3")
	assert.Contains(t, summary.Errors[0], "clave duplicada")
}

func TestRun_LotesSeVacianPorTamano(t *testing.T) {
	f := newFixture(bulkimport.Config{BatchSize: 2})
	var rows []bulkimport.Row
	for i := 0; i < 5; i++ {
		r := baseRow(i + 2)
		r.ProductCode = fmt.Sprintf("SKU-%d", i)
		r.LiquidationQty = decimal.NewFromInt(1)
		rows = append(rows, r)
	}

	_, err := f.pipeline.Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Len(t, f.entries.created, 5)
	assert.Equal(t, 3, f.entries.batches) // 2 + 2 + 1
}

func TestRun_ErroresAcotadosPorMaxErrors(t *testing.T) {
	f := newFixture(bulkimport.Config{MaxErrors: 2})
	var rows []bulkimport.Row
	for i := 0; i < 5; i++ {
		r := baseRow(i + 2)
		r.DistributorCode = ""
		rows = append(rows, r)
	}

	summary, err := f.pipeline.Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, summary.Errors, 3) // 2 retenidos + resumen de omitidos
	assert.Contains(t, summary.Errors[2], "3 errores más")
}

func TestRun_FalloDelCacheDePreciosAbortaLaCorrida(t *testing.T) {
	f := newFixture(bulkimport.Config{})
	f.products.err = errors.New("sin conexión")

	_, err := f.pipeline.Run(context.Background(), []bulkimport.Row{baseRow(2)})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "caché de precios"))
}
