package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RetailerStock es el registro de libro mayor por agroservicio × distribuidor × SKU.
// Normalmente se incrementa por transferencias; solo la verificación física
// sobreescribe CurrentQty y ajusta SoldQty por la varianza con signo.
type RetailerStock struct {
	RetailerCode    string
	DistributorCode string
	ProductCode     string
	RetailerName    string // denormalizado al primer contacto
	CurrentQty      decimal.Decimal
	ReceivedQty     decimal.Decimal // acumulado recibido
	SoldQty         decimal.Decimal // acumulado vendido
	UnitValue       decimal.Decimal
	LastReceivedQty decimal.Decimal
	LastReceivedAt  *time.Time
	UpdatedAt       time.Time
}
