package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agrovia/liquidacion-api/internal/domain/entity"
)

// ProductRepository define el puerto de datos maestros de productos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// PriceMap devuelve el mapa código → precio unitario de todo el catálogo.
	// La ingesta masiva lo construye UNA vez por corrida como caché de solo lectura.
	PriceMap(ctx context.Context) (map[string]decimal.Decimal, error)
}
