package allocation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/liquidacion-api/internal/domain/allocation"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func item(prev, nuevo, farmer int64, retailers ...allocation.RetailerLine) allocation.Item {
	return allocation.Item{
		ProductCode:     "UREA-46",
		PreviousBalance: d(prev),
		NewBalance:      d(nuevo),
		FarmerQty:       d(farmer),
		Retailers:       retailers,
	}
}

func retailer(code string, qty int64) allocation.RetailerLine {
	return allocation.RetailerLine{RetailerCode: code, Quantity: d(qty)}
}

// Caso base de la remisión D1/S1: delta 50 = agricultor 20 + agroservicio 30.
func TestValidate_PlanExacto_Aceptado(t *testing.T) {
	plan, violations := allocation.Validate([]allocation.Item{
		item(200, 150, 20, retailer("R1", 30)),
	})

	require.Empty(t, violations)
	require.NotNil(t, plan)
	assert.Len(t, plan.Items, 1)
}

// Mismos datos pero R1=25 (total 45 ≠ 50) → rechazado con sub-asignación de 5.
func TestValidate_SubAsignado_Rechazado(t *testing.T) {
	plan, violations := allocation.Validate([]allocation.Item{
		item(200, 150, 20, retailer("R1", 25)),
	})

	assert.Nil(t, plan)
	require.Len(t, violations, 1)
	assert.Equal(t, allocation.ViolationUnderAllocated, violations[0].Kind)
	assert.True(t, violations[0].Difference.Equal(d(5)), "la diferencia debe ser 5, fue %s", violations[0].Difference)
}

// Descuadre de 1 unidad ya rechaza: la regla es exacta, sin tolerancia.
func TestValidate_DescuadrePorUno_Rechazado(t *testing.T) {
	_, violations := allocation.Validate([]allocation.Item{
		item(200, 150, 20, retailer("R1", 31)),
	})

	require.Len(t, violations, 1)
	assert.Equal(t, allocation.ViolationOverAllocated, violations[0].Kind)
	assert.True(t, violations[0].Difference.Equal(d(1)))
}

// El delta es valor absoluto: un balance que sube también genera delta válido.
func TestValidate_DeltaAbsoluto(t *testing.T) {
	it := item(150, 200, 50)
	assert.True(t, it.Delta().Equal(d(50)))

	_, violations := allocation.Validate([]allocation.Item{it})
	assert.Empty(t, violations)
}

// Renglón con cantidad cero rechazado aunque la suma cuadre.
func TestValidate_CantidadNoPositiva_RechazadoAunqueCuadre(t *testing.T) {
	_, violations := allocation.Validate([]allocation.Item{
		item(200, 150, 50, retailer("R1", 0)),
	})

	require.NotEmpty(t, violations)
	kinds := violationKinds(violations)
	assert.Contains(t, kinds, allocation.ViolationNonPositiveQuantity)
}

// Renglón con cantidad negativa rechazado aunque la suma cuadre (20 + 40 - 10 = 50).
func TestValidate_CantidadNegativa_Rechazado(t *testing.T) {
	_, violations := allocation.Validate([]allocation.Item{
		item(200, 150, 20, retailer("R1", 40), retailer("R2", -10)),
	})

	kinds := violationKinds(violations)
	assert.Contains(t, kinds, allocation.ViolationNonPositiveQuantity)
}

// Renglón sin código resuelto rechazado aunque la suma cuadre.
func TestValidate_AgroservicioSinResolver_Rechazado(t *testing.T) {
	_, violations := allocation.Validate([]allocation.Item{
		item(200, 150, 20, retailer("", 30)),
	})

	require.Len(t, violations, 1)
	assert.Equal(t, allocation.ViolationUnresolvedRetailer, violations[0].Kind)
	assert.Equal(t, 0, violations[0].LineIndex)
}

// Remisión multi-SKU: un SKU inválido bloquea todo y se devuelven TODAS las
// violaciones juntas, no solo la primera.
func TestValidate_MultiSKU_TodasLasViolacionesJuntas(t *testing.T) {
	ok := item(100, 80, 20)
	bad1 := allocation.Item{
		ProductCode:     "NPK-151515",
		PreviousBalance: d(60),
		NewBalance:      d(40),
		FarmerQty:       d(10), // sub-asignado por 10
	}
	bad2 := allocation.Item{
		ProductCode:     "GLIFO-1L",
		PreviousBalance: d(30),
		NewBalance:      d(30),
		FarmerQty:       decimal.Zero,
		Retailers:       []allocation.RetailerLine{{RetailerCode: "", Quantity: d(0)}},
	}

	plan, violations := allocation.Validate([]allocation.Item{ok, bad1, bad2})

	assert.Nil(t, plan, "un SKU inválido bloquea la remisión completa")
	require.Len(t, violations, 3)

	var products []string
	for _, v := range violations {
		products = append(products, v.ProductCode)
	}
	assert.Contains(t, products, "NPK-151515")
	assert.Contains(t, products, "GLIFO-1L")
	assert.NotContains(t, products, "UREA-46")
}

// Sin movimiento y sin destinos: delta 0 asignado 0 → aceptado.
func TestValidate_SinMovimiento_Aceptado(t *testing.T) {
	plan, violations := allocation.Validate([]allocation.Item{item(100, 100, 0)})
	assert.Empty(t, violations)
	assert.NotNil(t, plan)
}

func violationKinds(vs []allocation.Violation) []string {
	var kinds []string
	for _, v := range vs {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}
