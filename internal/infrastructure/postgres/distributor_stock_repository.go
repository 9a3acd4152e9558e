package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

var _ repository.DistributorStockRepository = (*DistributorStockRepo)(nil)

// DistributorStockRepo libro mayor de distribuidores sobre PostgreSQL.
//
// Los acumulados se incrementan con x = x + $n dentro del UPDATE: la
// atomicidad por fila la da la base, no un lock de aplicación, así que dos
// remisiones concurrentes sobre el mismo par distribuidor+SKU suman ambas.
type DistributorStockRepo struct {
	q Querier
}

// NewDistributorStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDistributorStockRepository(q Querier) *DistributorStockRepo {
	return &DistributorStockRepo{q: q}
}

// Get obtiene la fila del libro mayor. Devuelve (nil, nil) si no existe.
func (r *DistributorStockRepo) Get(ctx context.Context, distributorCode, productCode string) (*entity.DistributorStock, error) {
	query := `
		SELECT distributor_code, product_code, opening_qty, opening_amount,
			balance_qty, balance_amount, liquidated_qty, liquidated_amount,
			sales_qty, sales_amount, updated_by, updated_at
		FROM distributor_stock WHERE distributor_code = $1 AND product_code = $2`
	var s entity.DistributorStock
	err := r.q.QueryRow(ctx, query, distributorCode, productCode).Scan(
		&s.DistributorCode, &s.ProductCode, &s.OpeningQty, &s.OpeningAmount,
		&s.BalanceQty, &s.BalanceAmount, &s.LiquidatedQty, &s.LiquidatedAmount,
		&s.SalesQty, &s.SalesAmount, &s.UpdatedBy, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get distributor stock: %w", err)
	}
	return &s, nil
}

// SetBalanceAndAccumulate hace upsert: crea la fila si no existe, sobreescribe
// el balance (last-write-wins) e incrementa los acumulados de liquidado y ventas.
func (r *DistributorStockRepo) SetBalanceAndAccumulate(ctx context.Context, upd repository.BalanceUpdate) error {
	query := `
		INSERT INTO distributor_stock (distributor_code, product_code,
			opening_qty, opening_amount, balance_qty, balance_amount,
			liquidated_qty, liquidated_amount, sales_qty, sales_amount,
			updated_by, updated_at)
		VALUES ($1, $2, 0, 0, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (distributor_code, product_code) DO UPDATE SET
			balance_qty       = EXCLUDED.balance_qty,
			balance_amount    = EXCLUDED.balance_amount,
			liquidated_qty    = distributor_stock.liquidated_qty + EXCLUDED.liquidated_qty,
			liquidated_amount = distributor_stock.liquidated_amount + EXCLUDED.liquidated_amount,
			sales_qty         = distributor_stock.sales_qty + EXCLUDED.sales_qty,
			sales_amount      = distributor_stock.sales_amount + EXCLUDED.sales_amount,
			updated_by        = EXCLUDED.updated_by,
			updated_at        = now()`
	_, err := r.q.Exec(ctx, query,
		upd.DistributorCode, upd.ProductCode,
		upd.BalanceQty, upd.BalanceAmount,
		upd.LiquidatedQty, upd.LiquidatedAmount,
		upd.SalesQty, upd.SalesAmount,
		upd.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("set balance and accumulate: %w", err)
	}
	return nil
}

// UpsertTotals sobreescribe los totales crudos completos de una fila (ingesta
// masiva). RETURNING (xmax = 0) distingue insert de update en el mismo viaje.
func (r *DistributorStockRepo) UpsertTotals(ctx context.Context, rec *entity.DistributorStock) (bool, error) {
	query := `
		INSERT INTO distributor_stock (distributor_code, product_code,
			opening_qty, opening_amount, balance_qty, balance_amount,
			liquidated_qty, liquidated_amount, sales_qty, sales_amount,
			updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (distributor_code, product_code) DO UPDATE SET
			opening_qty       = EXCLUDED.opening_qty,
			opening_amount    = EXCLUDED.opening_amount,
			balance_qty       = EXCLUDED.balance_qty,
			balance_amount    = EXCLUDED.balance_amount,
			liquidated_qty    = EXCLUDED.liquidated_qty,
			liquidated_amount = EXCLUDED.liquidated_amount,
			sales_qty         = EXCLUDED.sales_qty,
			sales_amount      = EXCLUDED.sales_amount,
			updated_by        = EXCLUDED.updated_by,
			updated_at        = now()
		RETURNING (xmax = 0)`
	var created bool
	err := r.q.QueryRow(ctx, query,
		rec.DistributorCode, rec.ProductCode,
		rec.OpeningQty, rec.OpeningAmount,
		rec.BalanceQty, rec.BalanceAmount,
		rec.LiquidatedQty, rec.LiquidatedAmount,
		rec.SalesQty, rec.SalesAmount,
		rec.UpdatedBy,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert totals: %w", err)
	}
	return created, nil
}
