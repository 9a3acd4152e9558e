package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un SKU del catálogo de insumos (datos maestros inmutables
// para el motor de liquidación: el precio unitario valoriza cantidades).
type Product struct {
	ID        string
	Code      string // código único por catálogo
	Name      string
	UnitLabel string // "kg", "lt", "sacos de 25 kg", etc.
	Category  string // semilla, fertilizante, agroquímico...
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
