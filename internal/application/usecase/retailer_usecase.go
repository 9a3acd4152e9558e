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

// RetailerUseCase casos de uso CRUD para agroservicios.
type RetailerUseCase struct {
	repo repository.RetailerRepository
}

// NewRetailerUseCase construye el caso de uso.
func NewRetailerUseCase(repo repository.RetailerRepository) *RetailerUseCase {
	return &RetailerUseCase{repo: repo}
}

// Create registra un agroservicio. Las liquidaciones solo pueden transferir a
// códigos registrados aquí; un destino desconocido rechaza el acta completa.
func (uc *RetailerUseCase) Create(ctx context.Context, in dto.CreateRetailerRequest) (*dto.RetailerResponse, error) {
	if in.Code == "" || in.Name == "" {
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
	r := &entity.Retailer{
		ID:              uuid.New().String(),
		Code:            in.Code,
		Name:            in.Name,
		OwnerName:       in.OwnerName,
		Phone:           in.Phone,
		Village:         in.Village,
		DistributorCode: in.DistributorCode,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return toRetailerResponse(r), nil
}

// GetByCode obtiene un agroservicio por código.
func (uc *RetailerUseCase) GetByCode(ctx context.Context, code string) (*dto.RetailerResponse, error) {
	r, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrRetailerNotFound
	}
	return toRetailerResponse(r), nil
}

// List lista agroservicios paginados.
func (uc *RetailerUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.RetailerResponse, error) {
	rs, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RetailerResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRetailerResponse(r))
	}
	return out, nil
}

func toRetailerResponse(r *entity.Retailer) *dto.RetailerResponse {
	if r == nil {
		return nil
	}
	return &dto.RetailerResponse{
		ID:              r.ID,
		Code:            r.Code,
		Name:            r.Name,
		OwnerName:       r.OwnerName,
		Phone:           r.Phone,
		Village:         r.Village,
		DistributorCode: r.DistributorCode,
		CreatedAt:       r.CreatedAt,
	}
}
