package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// Alcances de agregación para métricas.
const (
	ScopeDistributors = "distributors" // lista explícita de códigos
	ScopeTerritory    = "territory"
	ScopeRegion       = "region"
	ScopeZone         = "zone"
)

// MetricsScope delimita qué registros del libro mayor entran en la suma.
type MetricsScope struct {
	Kind             string
	Value            string   // territorio/región/zona cuando aplica
	DistributorCodes []string // solo para ScopeDistributors
}

// LedgerTotals sumas independientes de cantidades y montos del libro mayor.
type LedgerTotals struct {
	OpeningQty       decimal.Decimal
	OpeningAmount    decimal.Decimal
	SalesQty         decimal.Decimal
	SalesAmount      decimal.Decimal
	LiquidatedQty    decimal.Decimal
	LiquidatedAmount decimal.Decimal
	BalanceQty       decimal.Decimal
	BalanceAmount    decimal.Decimal
}

// MetricsRepository consultas de solo lectura sobre el estado actual del libro
// mayor. Sin caché: cada llamada recalcula desde la DB.
type MetricsRepository interface {
	SumLedger(ctx context.Context, scope MetricsScope) (*LedgerTotals, error)
}
