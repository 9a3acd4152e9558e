// Package allocation implementa la validación pura de planes de liquidación:
// el delta de stock reportado para un SKU debe quedar explicado EXACTAMENTE
// por los destinos nombrados (agricultor + agroservicios), sin tolerancia.
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tipos de violación de un plan de asignación.
const (
	ViolationUnderAllocated      = "under_allocated"
	ViolationOverAllocated       = "over_allocated"
	ViolationUnresolvedRetailer  = "unresolved_retailer"
	ViolationNonPositiveQuantity = "non_positive_quantity"
	// ViolationUnknownDestinationType: el destino trae un Type que no es
	// retailer ni manual. Petición malformada, no identidad sin resolver.
	ViolationUnknownDestinationType = "unknown_destination_type"
)

// RetailerLine destino resuelto hacia un agroservicio.
// La variante "entrada manual" del UI se pliega al destino agricultor ANTES de
// llegar aquí; el validador nunca ve identificadores centinela.
type RetailerLine struct {
	RetailerCode string
	RetailerName string
	Quantity     decimal.Decimal
}

// Item asignación reportada para un SKU.
type Item struct {
	ProductCode     string
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	FarmerQty       decimal.Decimal
	Retailers       []RetailerLine
}

// Delta devuelve |PreviousBalance − NewBalance|.
func (it Item) Delta() decimal.Decimal {
	return it.PreviousBalance.Sub(it.NewBalance).Abs()
}

// Allocated devuelve FarmerQty + Σ cantidades de agroservicio.
func (it Item) Allocated() decimal.Decimal {
	total := it.FarmerQty
	for _, r := range it.Retailers {
		total = total.Add(r.Quantity)
	}
	return total
}

// Violation describe por qué un renglón del plan fue rechazado.
// Difference solo aplica a under/over-allocated; LineIndex a violaciones de renglón.
type Violation struct {
	ProductCode string          `json:"product_code"`
	Kind        string          `json:"kind"`
	Difference  decimal.Decimal `json:"difference,omitempty"`
	LineIndex   int             `json:"line_index,omitempty"`
	Message     string          `json:"message"`
}

// Plan es un conjunto de asignaciones aceptado: todo SKU validado, ninguna escritura aún.
type Plan struct {
	Items []Item
}

// ValidateItem valida la asignación de UN SKU. Función pura, sin efectos.
//
// Reglas:
//   - FarmerQty + Σ retailer == |prev − new| exacto (sin tolerancia)
//   - todo renglón de agroservicio con código resuelto no vacío
//   - toda cantidad de agroservicio estrictamente positiva
//
// Un renglón inválido rechaza el SKU aunque la suma cuadre.
func ValidateItem(it Item) []Violation {
	var violations []Violation

	for i, r := range it.Retailers {
		if r.RetailerCode == "" {
			violations = append(violations, Violation{
				ProductCode: it.ProductCode,
				Kind:        ViolationUnresolvedRetailer,
				LineIndex:   i,
				Message:     fmt.Sprintf("%s: renglón %d sin agroservicio resuelto", it.ProductCode, i),
			})
		}
		if !r.Quantity.IsPositive() {
			violations = append(violations, Violation{
				ProductCode: it.ProductCode,
				Kind:        ViolationNonPositiveQuantity,
				LineIndex:   i,
				Message:     fmt.Sprintf("%s: renglón %d con cantidad no positiva (%s)", it.ProductCode, i, r.Quantity),
			})
		}
	}

	delta := it.Delta()
	allocated := it.Allocated()
	switch cmp := allocated.Cmp(delta); {
	case cmp < 0:
		diff := delta.Sub(allocated)
		violations = append(violations, Violation{
			ProductCode: it.ProductCode,
			Kind:        ViolationUnderAllocated,
			Difference:  diff,
			Message:     fmt.Sprintf("%s: sub-asignado por %s", it.ProductCode, diff),
		})
	case cmp > 0:
		diff := allocated.Sub(delta)
		violations = append(violations, Violation{
			ProductCode: it.ProductCode,
			Kind:        ViolationOverAllocated,
			Difference:  diff,
			Message:     fmt.Sprintf("%s: sobre-asignado por %s", it.ProductCode, diff),
		})
	}

	return violations
}

// Validate valida TODOS los SKUs de una remisión antes de cualquier escritura.
// Un SKU inválido bloquea la remisión completa (admisión todo-o-nada) y se
// devuelven juntas las violaciones de todos los SKUs, no solo la primera.
func Validate(items []Item) (*Plan, []Violation) {
	var violations []Violation
	for _, it := range items {
		violations = append(violations, ValidateItem(it)...)
	}
	if len(violations) > 0 {
		return nil, violations
	}
	return &Plan{Items: items}, nil
}
