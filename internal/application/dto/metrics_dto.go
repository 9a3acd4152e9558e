package dto

import "github.com/shopspring/decimal"

// QtyAmount par (cantidad, monto) de un concepto del libro mayor.
type QtyAmount struct {
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// LiquidationMetricsDTO roll-up de solo lectura del libro mayor para un alcance.
type LiquidationMetricsDTO struct {
	Scope                 string          `json:"scope"`
	Value                 string          `json:"value,omitempty"`
	OpeningStock          QtyAmount       `json:"opening_stock"`
	NetSales              QtyAmount       `json:"net_sales"`
	Liquidated            QtyAmount       `json:"liquidated"` // acumulado directo del libro mayor
	Balance               QtyAmount       `json:"balance"`
	LiquidationPercentage decimal.Decimal `json:"liquidation_percentage"` // derivado de opening+ventas−balance
}
