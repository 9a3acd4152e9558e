package repository

import (
	"context"

	"github.com/agrovia/liquidacion-api/internal/domain/entity"
)

// DistributorRepository define el puerto de datos maestros de distribuidores.
type DistributorRepository interface {
	Create(ctx context.Context, d *entity.Distributor) error
	Update(ctx context.Context, d *entity.Distributor) error
	GetByCode(ctx context.Context, code string) (*entity.Distributor, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Distributor, error)
}

// RetailerRepository define el puerto de datos maestros de agroservicios.
type RetailerRepository interface {
	Create(ctx context.Context, r *entity.Retailer) error
	Update(ctx context.Context, r *entity.Retailer) error
	GetByCode(ctx context.Context, code string) (*entity.Retailer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Retailer, error)
}
