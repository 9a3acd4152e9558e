package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

var _ repository.RetailerStockRepository = (*RetailerStockRepo)(nil)

// RetailerStockRepo libro mayor de agroservicios sobre PostgreSQL.
type RetailerStockRepo struct {
	q Querier
}

// NewRetailerStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRetailerStockRepository(q Querier) *RetailerStockRepo {
	return &RetailerStockRepo{q: q}
}

// Get obtiene la fila del libro mayor. Devuelve (nil, nil) si no existe.
func (r *RetailerStockRepo) Get(ctx context.Context, retailerCode, distributorCode, productCode string) (*entity.RetailerStock, error) {
	query := `
		SELECT retailer_code, distributor_code, product_code, retailer_name, current_qty,
			received_qty, sold_qty, unit_value, last_received_qty, last_received_at, updated_at
		FROM retailer_stock
		WHERE retailer_code = $1 AND distributor_code = $2 AND product_code = $3`
	var s entity.RetailerStock
	err := r.q.QueryRow(ctx, query, retailerCode, distributorCode, productCode).Scan(
		&s.RetailerCode, &s.DistributorCode, &s.ProductCode, &s.RetailerName, &s.CurrentQty,
		&s.ReceivedQty, &s.SoldQty, &s.UnitValue, &s.LastReceivedQty, &s.LastReceivedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get retailer stock: %w", err)
	}
	return &s, nil
}

// ApplyTransfer hace upsert: el primer contacto inicializa el registro con
// received = current = cantidad; contactos posteriores incrementan ambos.
// El incremento x = x + n es atómico por fila, dos remisiones concurrentes
// hacia el mismo agroservicio suman las dos.
func (r *RetailerStockRepo) ApplyTransfer(ctx context.Context, t repository.Transfer) error {
	query := `
		INSERT INTO retailer_stock (retailer_code, distributor_code, product_code,
			retailer_name, current_qty, received_qty, sold_qty, unit_value,
			last_received_qty, last_received_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5, 0, $6, $5, $7, now())
		ON CONFLICT (retailer_code, distributor_code, product_code) DO UPDATE SET
			current_qty       = retailer_stock.current_qty + EXCLUDED.current_qty,
			received_qty      = retailer_stock.received_qty + EXCLUDED.received_qty,
			unit_value        = EXCLUDED.unit_value,
			last_received_qty = EXCLUDED.last_received_qty,
			last_received_at  = EXCLUDED.last_received_at,
			updated_at        = now()`
	_, err := r.q.Exec(ctx, query,
		t.RetailerCode, t.DistributorCode, t.ProductCode,
		t.RetailerName, t.Quantity, t.UnitValue, t.Date,
	)
	if err != nil {
		return fmt.Errorf("apply transfer: %w", err)
	}
	return nil
}

// ApplyRecount sobreescribe current con el conteo físico e incrementa el
// acumulado de vendido por la varianza con signo (faltante = vendido).
func (r *RetailerStockRepo) ApplyRecount(ctx context.Context, rc repository.Recount) error {
	query := `
		INSERT INTO retailer_stock (retailer_code, distributor_code, product_code,
			retailer_name, current_qty, received_qty, sold_qty, unit_value,
			last_received_qty, last_received_at, updated_at)
		VALUES ($1, $2, $3, '', $4, 0, $5, 0, 0, NULL, now())
		ON CONFLICT (retailer_code, distributor_code, product_code) DO UPDATE SET
			current_qty = EXCLUDED.current_qty,
			sold_qty    = retailer_stock.sold_qty + EXCLUDED.sold_qty,
			updated_at  = now()`
	_, err := r.q.Exec(ctx, query,
		rc.RetailerCode, rc.DistributorCode, rc.ProductCode,
		rc.ActualQty, rc.SoldDelta,
	)
	if err != nil {
		return fmt.Errorf("apply recount: %w", err)
	}
	return nil
}
