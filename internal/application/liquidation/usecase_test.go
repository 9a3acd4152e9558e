package liquidation_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/application/liquidation"
	"github.com/agrovia/liquidacion-api/internal/domain/allocation"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
	"github.com/agrovia/liquidacion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeDistributors struct{ byCode map[string]*entity.Distributor }

func (f *fakeDistributors) Create(_ context.Context, d *entity.Distributor) error { return nil }
func (f *fakeDistributors) Update(_ context.Context, d *entity.Distributor) error { return nil }
func (f *fakeDistributors) GetByCode(_ context.Context, code string) (*entity.Distributor, error) {
	return f.byCode[code], nil
}
func (f *fakeDistributors) List(_ context.Context, _, _ int) ([]*entity.Distributor, error) {
	return nil, nil
}

type fakeRetailers struct{ byCode map[string]*entity.Retailer }

func (f *fakeRetailers) Create(_ context.Context, r *entity.Retailer) error { return nil }
func (f *fakeRetailers) Update(_ context.Context, r *entity.Retailer) error { return nil }
func (f *fakeRetailers) GetByCode(_ context.Context, code string) (*entity.Retailer, error) {
	return f.byCode[code], nil
}
func (f *fakeRetailers) List(_ context.Context, _, _ int) ([]*entity.Retailer, error) {
	return nil, nil
}

type fakeProducts struct{ byCode map[string]*entity.Product }

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error { return nil }
func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error { return nil }
func (f *fakeProducts) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	return f.byCode[code], nil
}
func (f *fakeProducts) List(_ context.Context, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) PriceMap(_ context.Context) (map[string]decimal.Decimal, error) {
	m := make(map[string]decimal.Decimal)
	for code, p := range f.byCode {
		m[code] = p.UnitPrice
	}
	return m, nil
}

// fakeDistStock imita la semántica del repositorio real: balance sobreescrito,
// acumulados incrementados atómicamente (bajo mutex).
type fakeDistStock struct {
	mu   sync.Mutex
	rows map[string]*entity.DistributorStock
}

func distKey(d, p string) string { return d + "|" + p }

func (f *fakeDistStock) Get(_ context.Context, d, p string) (*entity.DistributorStock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[distKey(d, p)]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDistStock) SetBalanceAndAccumulate(_ context.Context, upd repository.BalanceUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := distKey(upd.DistributorCode, upd.ProductCode)
	row, ok := f.rows[key]
	if !ok {
		row = &entity.DistributorStock{DistributorCode: upd.DistributorCode, ProductCode: upd.ProductCode}
		f.rows[key] = row
	}
	row.BalanceQty = upd.BalanceQty
	row.BalanceAmount = upd.BalanceAmount
	row.LiquidatedQty = row.LiquidatedQty.Add(upd.LiquidatedQty)
	row.LiquidatedAmount = row.LiquidatedAmount.Add(upd.LiquidatedAmount)
	row.SalesQty = row.SalesQty.Add(upd.SalesQty)
	row.SalesAmount = row.SalesAmount.Add(upd.SalesAmount)
	row.UpdatedBy = upd.UpdatedBy
	return nil
}

func (f *fakeDistStock) UpsertTotals(_ context.Context, rec *entity.DistributorStock) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := distKey(rec.DistributorCode, rec.ProductCode)
	_, existed := f.rows[key]
	cp := *rec
	f.rows[key] = &cp
	return !existed, nil
}

type fakeRetStock struct {
	mu      sync.Mutex
	rows    map[string]*entity.RetailerStock
	failFor string // código de agroservicio cuya escritura falla
}

func retKey(r, d, p string) string { return r + "|" + d + "|" + p }

func (f *fakeRetStock) Get(_ context.Context, r, d, p string) (*entity.RetailerStock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[retKey(r, d, p)]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRetStock) ApplyTransfer(_ context.Context, t repository.Transfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.RetailerCode == f.failFor {
		return errors.New("escritura simulada fallida")
	}
	key := retKey(t.RetailerCode, t.DistributorCode, t.ProductCode)
	row, ok := f.rows[key]
	if !ok {
		row = &entity.RetailerStock{
			RetailerCode:    t.RetailerCode,
			DistributorCode: t.DistributorCode,
			ProductCode:     t.ProductCode,
			RetailerName:    t.RetailerName,
			UnitValue:       t.UnitValue,
		}
		f.rows[key] = row
	}
	row.CurrentQty = row.CurrentQty.Add(t.Quantity)
	row.ReceivedQty = row.ReceivedQty.Add(t.Quantity)
	row.LastReceivedQty = t.Quantity
	d := t.Date
	row.LastReceivedAt = &d
	return nil
}

func (f *fakeRetStock) ApplyRecount(_ context.Context, rc repository.Recount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := retKey(rc.RetailerCode, rc.DistributorCode, rc.ProductCode)
	row, ok := f.rows[key]
	if !ok {
		row = &entity.RetailerStock{RetailerCode: rc.RetailerCode, DistributorCode: rc.DistributorCode, ProductCode: rc.ProductCode}
		f.rows[key] = row
	}
	row.CurrentQty = rc.ActualQty
	row.SoldQty = row.SoldQty.Add(rc.SoldDelta)
	return nil
}

type fakeEntries struct {
	mu      sync.Mutex
	entries []*entity.LiquidationEntry
}

func (f *fakeEntries) Create(_ context.Context, e *entity.LiquidationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return nil
}
func (f *fakeEntries) CreateMany(_ context.Context, es []*entity.LiquidationEntry) (int, []repository.FailedDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, es...)
	return len(es), nil, nil
}
func (f *fakeEntries) GetByID(_ context.Context, id string) (*entity.LiquidationEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}
func (f *fakeEntries) ListByDistributor(_ context.Context, _ string, _ int) ([]*entity.LiquidationEntry, error) {
	return nil, nil
}
func (f *fakeEntries) UpdateStatus(_ context.Context, id, status, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return nil
}

type fakeUploader struct{ uploads int }

func (f *fakeUploader) Upload(_ context.Context, name, _ string, _ []byte) (string, error) {
	f.uploads++
	return "https://storage.local/" + name, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc        *liquidation.SubmitLiquidationUseCase
	distStock *fakeDistStock
	retStock  *fakeRetStock
	entries   *fakeEntries
	uploader  *fakeUploader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	distStock := &fakeDistStock{rows: map[string]*entity.DistributorStock{
		distKey("D1", "UREA-46"): {
			DistributorCode: "D1", ProductCode: "UREA-46",
			BalanceQty: decimal.NewFromInt(200),
		},
	}}
	retStock := &fakeRetStock{rows: map[string]*entity.RetailerStock{}}
	entries := &fakeEntries{}
	uploader := &fakeUploader{}
	uc := liquidation.NewSubmitLiquidationUseCase(
		&fakeDistributors{byCode: map[string]*entity.Distributor{
			"D1": {Code: "D1", Name: "Agroinsumos del Valle", Territory: "valle"},
		}},
		&fakeRetailers{byCode: map[string]*entity.Retailer{
			"R1": {Code: "R1", Name: "Agroservicio La Ceiba"},
			"R2": {Code: "R2", Name: "Agroservicio El Roble"},
		}},
		&fakeProducts{byCode: map[string]*entity.Product{
			"UREA-46": {Code: "UREA-46", Name: "Urea 46%", UnitPrice: decimal.NewFromInt(10)},
		}},
		distStock, retStock, entries, uploader, logger.Nop(),
	)
	return &fixture{uc: uc, distStock: distStock, retStock: retStock, entries: entries, uploader: uploader}
}

func submitInput(items ...dto.LiquidationItemRequest) liquidation.SubmitInput {
	return liquidation.SubmitInput{
		DistributorCode: "D1",
		SubmittedBy:     "promotor-7",
		Items:           items,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Remisión D1/UREA-46: balance 200→150 (delta 50), agricultor 20, R1 30.
// Balance queda en 150, liquidado +20, stock de R1 +30, acta pendiente creada.
func TestSubmit_RemisionValida_PropagaLibroMayor(t *testing.T) {
	fx := newFixture(t)

	entryID, violations, err := fx.uc.Submit(context.Background(), submitInput(dto.LiquidationItemRequest{
		ProductCode: "UREA-46",
		NewBalance:  decimal.NewFromInt(150),
		FarmerQty:   decimal.NewFromInt(20),
		Destinations: []dto.AllocationDestination{
			{Type: dto.DestinationRetailer, RetailerCode: "R1", Quantity: decimal.NewFromInt(30)},
		},
	}))

	require.NoError(t, err)
	require.Empty(t, violations)
	require.NotEmpty(t, entryID)

	row, _ := fx.distStock.Get(context.Background(), "D1", "UREA-46")
	assert.True(t, row.BalanceQty.Equal(decimal.NewFromInt(150)), "balance debe sobreescribirse a 150")
	assert.True(t, row.LiquidatedQty.Equal(decimal.NewFromInt(20)), "liquidado a agricultor debe incrementar en 20")
	assert.True(t, row.BalanceAmount.Equal(decimal.NewFromInt(1500)), "monto = 150 × precio 10")

	ret, _ := fx.retStock.Get(context.Background(), "R1", "D1", "UREA-46")
	require.NotNil(t, ret)
	assert.True(t, ret.CurrentQty.Equal(decimal.NewFromInt(30)))
	assert.True(t, ret.ReceivedQty.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "Agroservicio La Ceiba", ret.RetailerName, "primer contacto inicializa el nombre")
	require.NotNil(t, ret.LastReceivedAt)

	// El acta de auditoría se crea de último, inmutable y pendiente.
	entry, _ := fx.entries.GetByID(context.Background(), entryID)
	require.NotNil(t, entry)
	assert.Equal(t, entity.EntryStatusPending, entry.Status)
	assert.Equal(t, entity.EntrySourceRealtime, entry.Source)
	require.Len(t, entry.Items, 1)
	assert.True(t, entry.Items[0].OpeningQty.Equal(decimal.NewFromInt(200)))
	assert.True(t, entry.Items[0].RetailerQty.Equal(decimal.NewFromInt(30)))
}

// Mismos datos pero R1=25: total 45 ≠ delta 50 → rechazo cerrado, cero escrituras.
func TestSubmit_SubAsignado_RechazoSinEscrituras(t *testing.T) {
	fx := newFixture(t)

	entryID, violations, err := fx.uc.Submit(context.Background(), submitInput(dto.LiquidationItemRequest{
		ProductCode: "UREA-46",
		NewBalance:  decimal.NewFromInt(150),
		FarmerQty:   decimal.NewFromInt(20),
		Destinations: []dto.AllocationDestination{
			{Type: dto.DestinationRetailer, RetailerCode: "R1", Quantity: decimal.NewFromInt(25)},
		},
	}))

	require.NoError(t, err)
	assert.Empty(t, entryID)
	require.Len(t, violations, 1)
	assert.Equal(t, allocation.ViolationUnderAllocated, violations[0].Kind)
	assert.True(t, violations[0].Difference.Equal(decimal.NewFromInt(5)))

	row, _ := fx.distStock.Get(context.Background(), "D1", "UREA-46")
	assert.True(t, row.BalanceQty.Equal(decimal.NewFromInt(200)), "el balance no debe tocarse")
	assert.True(t, row.LiquidatedQty.IsZero())
	assert.Empty(t, fx.entries.entries, "sin acta en rechazo cerrado")
	assert.Zero(t, fx.uploader.uploads, "sin subidas de soportes en rechazo")
}

// Agroservicio inexistente: rechazo duro en resolución de tiempo real,
// aunque la suma cuadre.
func TestSubmit_AgroservicioInexistente_RechazoDuro(t *testing.T) {
	fx := newFixture(t)

	_, violations, err := fx.uc.Submit(context.Background(), submitInput(dto.LiquidationItemRequest{
		ProductCode: "UREA-46",
		NewBalance:  decimal.NewFromInt(150),
		FarmerQty:   decimal.NewFromInt(20),
		Destinations: []dto.AllocationDestination{
			{Type: dto.DestinationRetailer, RetailerCode: "NO-EXISTE", Quantity: decimal.NewFromInt(30)},
		},
	}))

	require.NoError(t, err)
	require.NotEmpty(t, violations)
	assert.Equal(t, allocation.ViolationUnresolvedRetailer, violations[0].Kind)
	assert.Empty(t, fx.entries.entries)
}

// Un Type que no es retailer ni manual es petición malformada, con su propio
// tipo de violación para que el 422 no se confunda con un agroservicio no resuelto.
func TestSubmit_TipoDeDestinoDesconocido_ViolacionPropia(t *testing.T) {
	fx := newFixture(t)

	entryID, violations, err := fx.uc.Submit(context.Background(), submitInput(dto.LiquidationItemRequest{
		ProductCode: "UREA-46",
		NewBalance:  decimal.NewFromInt(150),
		FarmerQty:   decimal.NewFromInt(20),
		Destinations: []dto.AllocationDestination{
			{Type: "bodega", Quantity: decimal.NewFromInt(30)},
		},
	}))

	require.NoError(t, err)
	assert.Empty(t, entryID)
	require.NotEmpty(t, violations)
	assert.Equal(t, allocation.ViolationUnknownDestinationType, violations[0].Kind)
	assert.Empty(t, fx.entries.entries)
}

// El destino "manual" se pliega al cupo de agricultor: delta 50 = manual 30 + agricultor 20.
func TestSubmit_DestinoManual_SePliegaAAgricultor(t *testing.T) {
	fx := newFixture(t)

	entryID, violations, err := fx.uc.Submit(context.Background(), submitInput(dto.LiquidationItemRequest{
		ProductCode: "UREA-46",
		NewBalance:  decimal.NewFromInt(150),
		FarmerQty:   decimal.NewFromInt(20),
		Destinations: []dto.AllocationDestination{
			{Type: dto.DestinationManual, Quantity: decimal.NewFromInt(30)},
		},
	}))

	require.NoError(t, err)
	require.Empty(t, violations)
	require.NotEmpty(t, entryID)

	row, _ := fx.distStock.Get(context.Background(), "D1", "UREA-46")
	assert.True(t, row.LiquidatedQty.Equal(decimal.NewFromInt(50)), "manual 30 + agricultor 20 = 50 liquidado")
}

// Producto sin precio: no bloquea, se valoriza en cero.
func TestSubmit_ProductoSinPrecio_ValorizaEnCero(t *testing.T) {
	fx := newFixture(t)

	entryID, violations, err := fx.uc.Submit(context.Background(), submitInput(dto.LiquidationItemRequest{
		ProductCode: "SKU-FANTASMA",
		NewBalance:  decimal.NewFromInt(0),
		FarmerQty:   decimal.Zero,
	}))

	require.NoError(t, err)
	require.Empty(t, violations)
	require.NotEmpty(t, entryID)

	entry, _ := fx.entries.GetByID(context.Background(), entryID)
	require.Len(t, entry.Items, 1)
	assert.True(t, entry.Items[0].UnitPrice.IsZero())
}

// Fallo parcial: la transferencia a R2 falla, la remisión sigue adelante,
// no hay rollback de lo ya aplicado y el acta se crea igual.
func TestSubmit_FalloParcialDeTransferencia_NoRevierteNiFalla(t *testing.T) {
	fx := newFixture(t)
	fx.retStock.failFor = "R2"

	entryID, violations, err := fx.uc.Submit(context.Background(), submitInput(dto.LiquidationItemRequest{
		ProductCode: "UREA-46",
		NewBalance:  decimal.NewFromInt(150),
		FarmerQty:   decimal.NewFromInt(10),
		Destinations: []dto.AllocationDestination{
			{Type: dto.DestinationRetailer, RetailerCode: "R1", Quantity: decimal.NewFromInt(25)},
			{Type: dto.DestinationRetailer, RetailerCode: "R2", Quantity: decimal.NewFromInt(15)},
		},
	}))

	require.NoError(t, err, "el fallo parcial no se expone al caller")
	require.Empty(t, violations)
	require.NotEmpty(t, entryID)

	r1, _ := fx.retStock.Get(context.Background(), "R1", "D1", "UREA-46")
	require.NotNil(t, r1, "la escritura hermana sí se aplica")
	assert.True(t, r1.CurrentQty.Equal(decimal.NewFromInt(25)))

	r2, _ := fx.retStock.Get(context.Background(), "R2", "D1", "UREA-46")
	assert.Nil(t, r2, "la transferencia fallida se omite sin reintento")

	entry, _ := fx.entries.GetByID(context.Background(), entryID)
	require.NotNil(t, entry, "el acta se crea aunque un destino haya fallado")
}

// Transferencias concurrentes al mismo agroservicio+SKU: los incrementos son
// atómicos, el resultado es la suma sin importar el orden de llegada.
func TestSubmit_TransferenciasConcurrentesMismoDestino_Suman(t *testing.T) {
	fx := newFixture(t)

	entryID, violations, err := fx.uc.Submit(context.Background(), submitInput(dto.LiquidationItemRequest{
		ProductCode: "UREA-46",
		NewBalance:  decimal.NewFromInt(175),
		FarmerQty:   decimal.Zero,
		Destinations: []dto.AllocationDestination{
			{Type: dto.DestinationRetailer, RetailerCode: "R1", Quantity: decimal.NewFromInt(10)},
			{Type: dto.DestinationRetailer, RetailerCode: "R1", Quantity: decimal.NewFromInt(15)},
		},
	}))

	require.NoError(t, err)
	require.Empty(t, violations)
	require.NotEmpty(t, entryID)

	ret, _ := fx.retStock.Get(context.Background(), "R1", "D1", "UREA-46")
	require.NotNil(t, ret)
	assert.True(t, ret.CurrentQty.Equal(decimal.NewFromInt(25)), "current +25, fue %s", ret.CurrentQty)
	assert.True(t, ret.ReceivedQty.Equal(decimal.NewFromInt(25)), "received +25, fue %s", ret.ReceivedQty)
}

// Remisión multi-SKU con un SKU inválido: se devuelven todas las violaciones
// juntas y ningún SKU escribe.
func TestSubmit_MultiSKUConUnoInvalido_BloqueaTodo(t *testing.T) {
	fx := newFixture(t)
	// Segundo SKU sin registro previo: balance previo 0.
	fx.distStock.rows[distKey("D1", "NPK-151515")] = &entity.DistributorStock{
		DistributorCode: "D1", ProductCode: "NPK-151515", BalanceQty: decimal.NewFromInt(80),
	}

	_, violations, err := fx.uc.Submit(context.Background(), submitInput(
		dto.LiquidationItemRequest{
			ProductCode: "UREA-46",
			NewBalance:  decimal.NewFromInt(150),
			FarmerQty:   decimal.NewFromInt(50),
		},
		dto.LiquidationItemRequest{
			ProductCode: "NPK-151515",
			NewBalance:  decimal.NewFromInt(60),
			FarmerQty:   decimal.NewFromInt(15), // delta 20, sub-asignado por 5
		},
	))

	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "NPK-151515", violations[0].ProductCode)

	row, _ := fx.distStock.Get(context.Background(), "D1", "UREA-46")
	assert.True(t, row.BalanceQty.Equal(decimal.NewFromInt(200)), "el SKU válido tampoco escribe")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de revisión de actas
// ──────────────────────────────────────────────────────────────────────────────

func TestReview_SoloActasPendientesTransicionan(t *testing.T) {
	entries := &fakeEntries{entries: []*entity.LiquidationEntry{
		{ID: "acta-1", Status: entity.EntryStatusPending},
		{ID: "acta-2", Status: entity.EntryStatusApproved},
	}}
	uc := liquidation.NewReviewEntryUseCase(entries)

	require.NoError(t, uc.Review(context.Background(), "acta-1", entity.EntryStatusApproved, "supervisor-1"))

	err := uc.Review(context.Background(), "acta-2", entity.EntryStatusRejected, "supervisor-1")
	assert.Error(t, err, "un acta ya revisada no debe transicionar")
}

func TestReview_EstadoInvalido(t *testing.T) {
	uc := liquidation.NewReviewEntryUseCase(&fakeEntries{})
	err := uc.Review(context.Background(), "acta-1", "archived", "supervisor-1")
	assert.Error(t, err)
}

// Sanidad del fake: incrementos concurrentes directos también suman.
func TestFakeRetStock_IncrementosConcurrentes(t *testing.T) {
	rs := &fakeRetStock{rows: map[string]*entity.RetailerStock{}}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = rs.ApplyTransfer(context.Background(), repository.Transfer{
				RetailerCode: "R1", DistributorCode: "D1", ProductCode: "UREA-46",
				Quantity: decimal.NewFromInt(1), Date: time.Now(),
			})
		}(i)
	}
	wg.Wait()
	row, _ := rs.Get(context.Background(), "R1", "D1", "UREA-46")
	require.NotNil(t, row)
	assert.Equal(t, "50", row.CurrentQty.String(), fmt.Sprintf("se esperaban 50, fue %s", row.CurrentQty))
}
