package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

// DistributorUseCase casos de uso CRUD para distribuidores.
type DistributorUseCase struct {
	repo repository.DistributorRepository
}

// NewDistributorUseCase construye el caso de uso.
func NewDistributorUseCase(repo repository.DistributorRepository) *DistributorUseCase {
	return &DistributorUseCase{repo: repo}
}

// Create registra un distribuidor. Territory/Region/Zone alimentan la
// jerarquía de agregación de métricas, por eso son obligatorios.
func (uc *DistributorUseCase) Create(ctx context.Context, in dto.CreateDistributorRequest) (*dto.DistributorResponse, error) {
	if in.Code == "" || in.Name == "" || in.Territory == "" || in.Region == "" || in.Zone == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	d := &entity.Distributor{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Territory: in.Territory,
		Region:    in.Region,
		Zone:      in.Zone,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return toDistributorResponse(d), nil
}

// GetByCode obtiene un distribuidor por código.
func (uc *DistributorUseCase) GetByCode(ctx context.Context, code string) (*dto.DistributorResponse, error) {
	d, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return toDistributorResponse(d), nil
}

// List lista distribuidores paginados.
func (uc *DistributorUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.DistributorResponse, error) {
	ds, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DistributorResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, toDistributorResponse(d))
	}
	return out, nil
}

func toDistributorResponse(d *entity.Distributor) *dto.DistributorResponse {
	if d == nil {
		return nil
	}
	return &dto.DistributorResponse{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		Territory: d.Territory,
		Region:    d.Region,
		Zone:      d.Zone,
		Phone:     d.Phone,
		Email:     d.Email,
		Address:   d.Address,
		CreatedAt: d.CreatedAt,
	}
}
