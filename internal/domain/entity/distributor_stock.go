package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributorStock es el registro de libro mayor por distribuidor × SKU.
// Cada concepto se lleva como par (cantidad, monto).
//
// Balance se SOBREESCRIBE con el último valor reportado; Liquidated y Sales
// solo se INCREMENTAN, nunca se recalculan a partir del balance.
type DistributorStock struct {
	DistributorCode  string
	ProductCode      string
	OpeningQty       decimal.Decimal
	OpeningAmount    decimal.Decimal
	BalanceQty       decimal.Decimal
	BalanceAmount    decimal.Decimal
	LiquidatedQty    decimal.Decimal // acumulado liquidado a agricultor
	LiquidatedAmount decimal.Decimal
	SalesQty         decimal.Decimal // acumulado de ventas netas
	SalesAmount      decimal.Decimal
	UpdatedBy        string
	UpdatedAt        time.Time
}
