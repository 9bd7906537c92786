package service

import (
	"context"
	"encoding/json"
	"time"

	"stayops/core/cache"
	"stayops/core/constants"
	coreEntity "stayops/core/entity"
	"stayops/core/errors"
	"stayops/core/logger"
	"stayops/core/params"
	"stayops/modules/property/dto"
	"stayops/modules/property/entity"
	"stayops/modules/property/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const propertyCacheTTL = 10 * time.Minute

// PropertyServiceInterface defines the service contract
type PropertyServiceInterface interface {
	Create(ctx context.Context, req *dto.CreatePropertyRequest) (*entity.Property, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Property, *errors.AppError)
	List(ctx context.Context, p params.QueryParams) (*coreEntity.Pagination[entity.Property], *errors.AppError)
}

type PropertyService struct {
	repo  repository.PropertyRepositoryInterface
	cache cache.Cache
}

func NewPropertyService(repo repository.PropertyRepositoryInterface, c cache.Cache) PropertyServiceInterface {
	return &PropertyService{repo: repo, cache: c}
}

func (s *PropertyService) Create(ctx context.Context, req *dto.CreatePropertyRequest) (*entity.Property, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "property name is required", nil)
	}
	if req.MaxOccupancy <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "max occupancy must be positive", nil)
	}

	property := &entity.Property{
		Name:         req.Name,
		Slug:         slug.Make(req.Name),
		MaxOccupancy: req.MaxOccupancy,
		MinStayDays:  req.MinStayDays,
		NightlyRate:  req.NightlyRate,
		Status:       entity.PropertyStatusActive,
	}
	if req.Address != "" {
		property.Address = &req.Address
	}
	if property.MinStayDays <= 0 {
		property.MinStayDays = 1
	}

	existing, err := s.repo.GetBySlug(ctx, property.Slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to check property slug", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "property with this name already exists", nil)
	}

	created, err := s.repo.Create(ctx, property)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to create property", err)
	}

	return created, nil
}

// GetByID reads through the redis cache; validation hits this on every request.
func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Property, *errors.AppError) {
	key := constants.CacheKeyProperty + id.String()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
			var property entity.Property
			if err := json.Unmarshal([]byte(cached), &property); err == nil {
				return &property, nil
			}
		}
	}

	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to get property", err)
	}
	if property == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "property not found", nil)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(property); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), propertyCacheTTL); err != nil {
				logger.Warn("PropertyService:GetByID:CacheSet:Error:", "error", err)
			}
		}
	}

	return property, nil
}

func (s *PropertyService) List(ctx context.Context, p params.QueryParams) (*coreEntity.Pagination[entity.Property], *errors.AppError) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to count properties", err)
	}

	offset := (p.PageNumber - 1) * p.PageSize
	properties, err := s.repo.List(ctx, p.PageSize, offset)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to list properties", err)
	}

	return &coreEntity.Pagination[entity.Property]{
		Items:      properties,
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}
