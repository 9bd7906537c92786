package repository

import (
	"context"
	"database/sql"

	"stayops/core/database"
	"stayops/core/logger"
	"stayops/modules/property/entity"

	"github.com/google/uuid"
)

// PropertyRepositoryInterface defines the repository contract
type PropertyRepositoryInterface interface {
	Create(ctx context.Context, property *entity.Property) (*entity.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Property, error)
	List(ctx context.Context, limit, offset int) ([]entity.Property, error)
	Count(ctx context.Context) (int, error)
}

type PropertyRepository struct {
	DB database.Database
}

func NewPropertyRepository(db database.Database) *PropertyRepository {
	return &PropertyRepository{DB: db}
}

func (r *PropertyRepository) Create(ctx context.Context, property *entity.Property) (*entity.Property, error) {
	query := `
		INSERT INTO properties (name, slug, address, max_occupancy, min_stay_days, nightly_rate, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, slug, address, max_occupancy, min_stay_days, nightly_rate, status, created_at, updated_at
	`

	var created entity.Property
	err := r.DB.GetContext(ctx, &created, query,
		property.Name, property.Slug, property.Address,
		property.MaxOccupancy, property.MinStayDays, property.NightlyRate, property.Status)
	if err != nil {
		logger.Error("PropertyRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	query := `
		SELECT id, name, slug, address, max_occupancy, min_stay_days, nightly_rate, status, created_at, updated_at
		FROM properties WHERE id = $1
	`

	var property entity.Property
	err := r.DB.GetContext(ctx, &property, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PropertyRepository:GetByID", err)
		return nil, err
	}

	return &property, nil
}

func (r *PropertyRepository) GetBySlug(ctx context.Context, slug string) (*entity.Property, error) {
	query := `
		SELECT id, name, slug, address, max_occupancy, min_stay_days, nightly_rate, status, created_at, updated_at
		FROM properties WHERE slug = $1
	`

	var property entity.Property
	err := r.DB.GetContext(ctx, &property, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PropertyRepository:GetBySlug", err)
		return nil, err
	}

	return &property, nil
}

func (r *PropertyRepository) List(ctx context.Context, limit, offset int) ([]entity.Property, error) {
	query := `
		SELECT id, name, slug, address, max_occupancy, min_stay_days, nightly_rate, status, created_at, updated_at
		FROM properties
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var properties []entity.Property
	err := r.DB.SelectContext(ctx, &properties, query, limit, offset)
	if err != nil {
		logger.Error("PropertyRepository:List", err)
		return nil, err
	}

	return properties, nil
}

func (r *PropertyRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM properties`)
	if err != nil {
		logger.Error("PropertyRepository:Count", err)
		return 0, err
	}
	return count, nil
}
