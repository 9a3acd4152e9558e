package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

var _ repository.DistributorRepository = (*DistributorRepo)(nil)

// DistributorRepo implementación de DistributorRepository sobre PostgreSQL.
type DistributorRepo struct {
	q Querier
}

// NewDistributorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDistributorRepository(q Querier) *DistributorRepo {
	return &DistributorRepo{q: q}
}

// Create persiste un nuevo distribuidor.
func (r *DistributorRepo) Create(ctx context.Context, d *entity.Distributor) error {
	query := `
		INSERT INTO distributors (id, code, name, territory, region, zone, phone, email, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Code, d.Name, d.Territory, d.Region, d.Zone,
		d.Phone, d.Email, d.Address, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert distributor: %w", err)
	}
	return nil
}

// Update actualiza un distribuidor existente.
func (r *DistributorRepo) Update(ctx context.Context, d *entity.Distributor) error {
	query := `
		UPDATE distributors SET name = $2, territory = $3, region = $4, zone = $5,
			phone = $6, email = $7, address = $8, updated_at = $9
		WHERE code = $1`
	_, err := r.q.Exec(ctx, query,
		d.Code, d.Name, d.Territory, d.Region, d.Zone,
		d.Phone, d.Email, d.Address, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update distributor: %w", err)
	}
	return nil
}

// GetByCode obtiene un distribuidor por código. Devuelve (nil, nil) si no existe.
func (r *DistributorRepo) GetByCode(ctx context.Context, code string) (*entity.Distributor, error) {
	query := `
		SELECT id, code, name, territory, region, zone, phone, email, address, created_at, updated_at
		FROM distributors WHERE code = $1`
	var d entity.Distributor
	err := r.q.QueryRow(ctx, query, code).Scan(
		&d.ID, &d.Code, &d.Name, &d.Territory, &d.Region, &d.Zone,
		&d.Phone, &d.Email, &d.Address, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get distributor by code: %w", err)
	}
	return &d, nil
}

// List lista distribuidores con paginación.
func (r *DistributorRepo) List(ctx context.Context, limit, offset int) ([]*entity.Distributor, error) {
	query := `
		SELECT id, code, name, territory, region, zone, phone, email, address, created_at, updated_at
		FROM distributors ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list distributors: %w", err)
	}
	defer rows.Close()

	var ds []*entity.Distributor
	for rows.Next() {
		var d entity.Distributor
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.Territory, &d.Region, &d.Zone,
			&d.Phone, &d.Email, &d.Address, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan distributor: %w", err)
		}
		ds = append(ds, &d)
	}
	return ds, rows.Err()
}
