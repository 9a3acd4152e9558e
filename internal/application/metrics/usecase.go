// Package metrics expone el roll-up de solo lectura del libro mayor de
// distribuidores. No mantiene caché: cada consulta recalcula desde la base.
package metrics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
	"github.com/agrovia/liquidacion-api/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// GetMetricsUseCase agrega el libro mayor por alcance.
type GetMetricsUseCase struct {
	metrics repository.MetricsRepository
	log     *logger.Logger
}

// NewGetMetricsUseCase constructor.
func NewGetMetricsUseCase(metrics repository.MetricsRepository, log *logger.Logger) *GetMetricsUseCase {
	return &GetMetricsUseCase{metrics: metrics, log: log}
}

// Get suma el libro mayor dentro del alcance y deriva el porcentaje de
// liquidación. El porcentaje canónico sale SIEMPRE de la fórmula derivada
// (apertura + ventas − balance) y no del acumulado Liquidated, que puede
// divergir cuando hay cargas históricas sin detalle.
func (uc *GetMetricsUseCase) Get(ctx context.Context, scope repository.MetricsScope) (*dto.LiquidationMetricsDTO, error) {
	switch scope.Kind {
	case repository.ScopeDistributors:
		if len(scope.DistributorCodes) == 0 {
			return nil, domain.ErrInvalidInput
		}
	case repository.ScopeTerritory, repository.ScopeRegion, repository.ScopeZone:
		if scope.Value == "" {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	totals, err := uc.metrics.SumLedger(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &dto.LiquidationMetricsDTO{
		Scope:                 scope.Kind,
		Value:                 scope.Value,
		OpeningStock:          dto.QtyAmount{Quantity: totals.OpeningQty, Amount: totals.OpeningAmount},
		NetSales:              dto.QtyAmount{Quantity: totals.SalesQty, Amount: totals.SalesAmount},
		Liquidated:            dto.QtyAmount{Quantity: totals.LiquidatedQty, Amount: totals.LiquidatedAmount},
		Balance:               dto.QtyAmount{Quantity: totals.BalanceQty, Amount: totals.BalanceAmount},
		LiquidationPercentage: liquidationPercentage(totals.OpeningQty, totals.SalesQty, totals.BalanceQty),
	}, nil
}

// liquidationPercentage = ((apertura + ventas − balance) / (apertura + ventas)) × 100,
// redondeado a dos decimales. Denominador no positivo devuelve cero en vez de
// dividir: un alcance sin stock disponible no tiene porcentaje significativo.
func liquidationPercentage(opening, sales, balance decimal.Decimal) decimal.Decimal {
	available := opening.Add(sales)
	if !available.IsPositive() {
		return decimal.Zero
	}
	return available.Sub(balance).Div(available).Mul(hundred).Round(2)
}
