// Package pdf implementa la representación gráfica del acta de liquidación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Distribuidor + código  │  N° Acta + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Saldo ant. | Saldo | Agricultor | Valor  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRANSFERENCIAS: agroservicio + cantidad por renglón        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: liquidado + estado del acta                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/agrovia/liquidacion-api/internal/application/liquidation"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ liquidation.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa liquidation.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceipt genera el PDF del acta y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(
	_ context.Context,
	entry *entity.LiquidationEntry,
	distributor *entity.Distributor,
	unitLabels map[string]string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Liquidación", true).
		WithAuthor(distributor.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(entry, distributor))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range itemRows(entry, unitLabels) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(entry))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: distribuidor (izq) y número de acta + fecha (der).
func headerRow(entry *entity.LiquidationEntry, distributor *entity.Distributor) core.Row {
	fecha := entry.EntryDate.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(distributor.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Código: %s   |   %s / %s", distributor.Code, distributor.Territory, distributor.Zone), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ACTA DE LIQUIDACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(entry.ID, props.Text{
				Size: 7, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de renglones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Saldo ant.", 2, align.Right),
		h("Saldo", 2, align.Right),
		h("Agricultor", 2, align.Right),
		h("Valor", 3, align.Right),
	)
}

// itemRows: una fila por SKU, con sub-filas por cada transferencia a agroservicio.
func itemRows(entry *entity.LiquidationEntry, unitLabels map[string]string) []core.Row {
	result := make([]core.Row, 0, len(entry.Items))
	for _, item := range entry.Items {
		label := item.ProductCode
		if unit := unitLabels[item.ProductCode]; unit != "" {
			label = fmt.Sprintf("%s (%s)", item.ProductCode, unit)
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(label, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(item.OpeningQty.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(item.BalanceQty.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(item.FarmerQty.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New("$"+item.FarmerAmount.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
		for _, rl := range item.Retailers {
			name := rl.RetailerCode
			if rl.RetailerName != "" {
				name = fmt.Sprintf("%s (%s)", rl.RetailerName, rl.RetailerCode)
			}
			result = append(result, row.New(5).Add(
				col.New(3).Add(text.New("  → "+name, props.Text{Size: 7, Top: 1, Left: 3, Color: colorGray})),
				col.New(6),
				col.New(3).Add(text.New(rl.Quantity.StringFixed(2), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1, Color: colorGray})),
			))
		}
	}
	return result
}

// totalsRow: total liquidado a agricultor + estado del acta.
func totalsRow(entry *entity.LiquidationEntry) core.Row {
	totalQty := decimal.Zero
	totalAmount := decimal.Zero
	for _, item := range entry.Items {
		totalQty = totalQty.Add(item.FarmerQty)
		totalAmount = totalAmount.Add(item.FarmerAmount)
	}

	return row.New(16).Add(
		col.New(6).Add(
			text.New("Estado: "+entry.Status, props.Text{Size: 9, Top: 2, Color: colorGray}),
			text.New("Registrado por: "+entry.SubmittedBy, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Total liquidado: %s", totalQty.StringFixed(2)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1,
			}),
			text.New("$"+totalAmount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 8,
				Color: colorPrimary, Right: 1,
			}),
		),
	)
}
