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

var _ repository.RetailerRepository = (*RetailerRepo)(nil)

// RetailerRepo implementación de RetailerRepository sobre PostgreSQL.
type RetailerRepo struct {
	q Querier
}

// NewRetailerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRetailerRepository(q Querier) *RetailerRepo {
	return &RetailerRepo{q: q}
}

// Create persiste un nuevo agroservicio.
func (r *RetailerRepo) Create(ctx context.Context, ret *entity.Retailer) error {
	query := `
		INSERT INTO retailers (id, code, name, owner_name, phone, village, distributor_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		ret.ID, ret.Code, ret.Name, ret.OwnerName, ret.Phone,
		ret.Village, ret.DistributorCode, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert retailer: %w", err)
	}
	return nil
}

// Update actualiza un agroservicio existente.
func (r *RetailerRepo) Update(ctx context.Context, ret *entity.Retailer) error {
	query := `
		UPDATE retailers SET name = $2, owner_name = $3, phone = $4, village = $5, updated_at = $6
		WHERE code = $1`
	_, err := r.q.Exec(ctx, query,
		ret.Code, ret.Name, ret.OwnerName, ret.Phone, ret.Village, ret.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update retailer: %w", err)
	}
	return nil
}

// GetByCode obtiene un agroservicio por código. Devuelve (nil, nil) si no existe.
func (r *RetailerRepo) GetByCode(ctx context.Context, code string) (*entity.Retailer, error) {
	query := `
		SELECT id, code, name, owner_name, phone, village, distributor_code, created_at, updated_at
		FROM retailers WHERE code = $1`
	var ret entity.Retailer
	err := r.q.QueryRow(ctx, query, code).Scan(
		&ret.ID, &ret.Code, &ret.Name, &ret.OwnerName, &ret.Phone,
		&ret.Village, &ret.DistributorCode, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get retailer by code: %w", err)
	}
	return &ret, nil
}

// List lista agroservicios con paginación.
func (r *RetailerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Retailer, error) {
	query := `
		SELECT id, code, name, owner_name, phone, village, distributor_code, created_at, updated_at
		FROM retailers ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list retailers: %w", err)
	}
	defer rows.Close()

	var rs []*entity.Retailer
	for rows.Next() {
		var ret entity.Retailer
		if err := rows.Scan(&ret.ID, &ret.Code, &ret.Name, &ret.OwnerName, &ret.Phone,
			&ret.Village, &ret.DistributorCode, &ret.CreatedAt, &ret.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan retailer: %w", err)
		}
		rs = append(rs, &ret)
	}
	return rs, rows.Err()
}
