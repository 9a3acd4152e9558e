package postgres

import (
	"context"
	"fmt"

	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

var _ repository.MetricsRepository = (*MetricsRepo)(nil)

// MetricsRepo consultas de agregación de solo lectura sobre el libro mayor.
// Sin caché ni tablas materializadas: COALESCE(SUM(...), 0) directo contra
// distributor_stock, filtrado por la jerarquía de distributors.
type MetricsRepo struct {
	q Querier
}

// NewMetricsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMetricsRepository(q Querier) *MetricsRepo {
	return &MetricsRepo{q: q}
}

const sumLedgerBase = `
	SELECT
		COALESCE(SUM(ds.opening_qty), 0), COALESCE(SUM(ds.opening_amount), 0),
		COALESCE(SUM(ds.sales_qty), 0), COALESCE(SUM(ds.sales_amount), 0),
		COALESCE(SUM(ds.liquidated_qty), 0), COALESCE(SUM(ds.liquidated_amount), 0),
		COALESCE(SUM(ds.balance_qty), 0), COALESCE(SUM(ds.balance_amount), 0)
	FROM distributor_stock ds
	JOIN distributors d ON d.code = ds.distributor_code`

// SumLedger suma cada concepto del libro mayor de forma independiente dentro
// del alcance. Cada llamada recalcula desde la base.
func (r *MetricsRepo) SumLedger(ctx context.Context, scope repository.MetricsScope) (*repository.LedgerTotals, error) {
	var query string
	var args []any
	switch scope.Kind {
	case repository.ScopeDistributors:
		query = sumLedgerBase + ` WHERE ds.distributor_code = ANY($1)`
		args = []any{scope.DistributorCodes}
	case repository.ScopeTerritory:
		query = sumLedgerBase + ` WHERE d.territory = $1`
		args = []any{scope.Value}
	case repository.ScopeRegion:
		query = sumLedgerBase + ` WHERE d.region = $1`
		args = []any{scope.Value}
	case repository.ScopeZone:
		query = sumLedgerBase + ` WHERE d.zone = $1`
		args = []any{scope.Value}
	default:
		return nil, domain.ErrInvalidInput
	}

	var t repository.LedgerTotals
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&t.OpeningQty, &t.OpeningAmount,
		&t.SalesQty, &t.SalesAmount,
		&t.LiquidatedQty, &t.LiquidatedAmount,
		&t.BalanceQty, &t.BalanceAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("sum ledger: %w", err)
	}
	return &t, nil
}
