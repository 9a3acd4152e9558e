package bulkimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Nombres de columna normalizados (minúsculas, sin espacios ni guiones bajos).
const (
	colDistributorCode = "distributorcode"
	colProductCode     = "productcode"
	colUpdatedBy       = "updatedby"
	colYear            = "year"
	colOpeningStock    = "openingstock"
	colClosingBalance  = "closingbalance"
	colLiquidation     = "liquidationstock"
	colYTDNetSales     = "ytdnetsales"
)

// monthNames mapea el prefijo de las doce columnas mensuales de venta y
// liquidación (ej. "april_sales", "april_liquidation").
var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// Row una fila tabular del archivo histórico: un (distribuidor, producto,
// período) con totales agregados y sub-columnas mensuales opcionales.
type Row struct {
	Number          int // número de fila en el archivo (el header es la 1)
	DistributorCode string
	ProductCode     string
	UpdatedBy       string
	Year            int

	OpeningQty     decimal.Decimal
	ClosingQty     decimal.Decimal
	LiquidationQty decimal.Decimal // total agregado liquidado
	NetSalesQty    decimal.Decimal

	MonthlySales       map[time.Month]decimal.Decimal
	MonthlyLiquidation map[time.Month]decimal.Decimal
}

// ParseReader lee el CSV completo. Los exportes legados llegan en ISO-8859-1;
// con latin1 activo se transcodifica a UTF-8 al vuelo.
//
// El parser no valida contenido: filas con códigos en blanco o números
// ilegibles salen igual y es el pipeline quien las reporta con su número de
// fila, para que una fila mala nunca aborte la corrida.
func ParseReader(r io.Reader, latin1 bool) ([]Row, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}

	var rows []Row
	number := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer fila %d: %w", number+1, err)
		}
		number++
		rows = append(rows, parseRow(record, cols, number))
	}
	return rows, nil
}

func parseRow(record []string, cols map[string]int, number int) Row {
	get := func(key string) string {
		idx, ok := cols[key]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := Row{
		Number:             number,
		DistributorCode:    get(colDistributorCode),
		ProductCode:        get(colProductCode),
		UpdatedBy:          get(colUpdatedBy),
		OpeningQty:         parseDecimal(get(colOpeningStock)),
		ClosingQty:         parseDecimal(get(colClosingBalance)),
		LiquidationQty:     parseDecimal(get(colLiquidation)),
		NetSalesQty:        parseDecimal(get(colYTDNetSales)),
		MonthlySales:       make(map[time.Month]decimal.Decimal),
		MonthlyLiquidation: make(map[time.Month]decimal.Decimal),
	}
	if y, err := strconv.Atoi(get(colYear)); err == nil {
		row.Year = y
	}
	for name, month := range monthNames {
		if v := parseDecimal(get(name + "sales")); !v.IsZero() {
			row.MonthlySales[month] = v
		}
		if v := parseDecimal(get(name + "liquidation")); !v.IsZero() {
			row.MonthlyLiquidation[month] = v
		}
	}
	return row
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// parseDecimal tolera vacío y separadores de miles; ilegible vale cero.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
