package repository

import (
	"context"
	"time"

	"stayops/core/database"
	"stayops/core/logger"
	"stayops/modules/schedule/entity"

	"github.com/google/uuid"
)

// BlockRepositoryInterface defines the repository contract
type BlockRepositoryInterface interface {
	Create(ctx context.Context, block *entity.ResourceBlock) (*entity.ResourceBlock, error)
	ListActiveByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.ResourceBlock, error)
	ListActiveByPropertyInRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]entity.ResourceBlock, error)
	CancelBySource(ctx context.Context, sourceID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BlockStatus) error
}

type BlockRepository struct {
	DB database.Database
}

func NewBlockRepository(db database.Database) *BlockRepository {
	return &BlockRepository{DB: db}
}

const blockColumns = `id, property_id, start_at, end_at, kind, status, source_id, source_type, event_type, priority, created_at, updated_at`

func (r *BlockRepository) Create(ctx context.Context, block *entity.ResourceBlock) (*entity.ResourceBlock, error) {
	query := `
		INSERT INTO resource_blocks (property_id, start_at, end_at, kind, status, source_id, source_type, event_type, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + blockColumns

	var created entity.ResourceBlock
	err := r.DB.GetContext(ctx, &created, query,
		block.PropertyID, block.StartAt, block.EndAt, block.Kind, block.Status,
		block.SourceID, block.SourceType, block.EventType, block.Priority)
	if err != nil {
		logger.Error("BlockRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *BlockRepository) ListActiveByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.ResourceBlock, error) {
	query := `
		SELECT ` + blockColumns + `
		FROM resource_blocks
		WHERE property_id = $1 AND status = 'active'
		ORDER BY start_at
	`

	var blocks []entity.ResourceBlock
	err := r.DB.SelectContext(ctx, &blocks, query, propertyID)
	if err != nil {
		logger.Error("BlockRepository:ListActiveByProperty", err)
		return nil, err
	}

	return blocks, nil
}

// ListActiveByPropertyInRange uses half-open interval overlap: a block
// [start_at, end_at) overlaps [start, end) iff start_at < end AND end_at > start.
func (r *BlockRepository) ListActiveByPropertyInRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]entity.ResourceBlock, error) {
	query := `
		SELECT ` + blockColumns + `
		FROM resource_blocks
		WHERE property_id = $1 AND status = 'active'
		  AND start_at < $3 AND end_at > $2
		ORDER BY start_at
	`

	var blocks []entity.ResourceBlock
	err := r.DB.SelectContext(ctx, &blocks, query, propertyID, start, end)
	if err != nil {
		logger.Error("BlockRepository:ListActiveByPropertyInRange", err)
		return nil, err
	}

	return blocks, nil
}

// CancelBySource cancels all active blocks created from one reservation.
// Blocks are never deleted; history is append-only.
func (r *BlockRepository) CancelBySource(ctx context.Context, sourceID uuid.UUID) error {
	query := `
		UPDATE resource_blocks
		SET status = 'cancelled', updated_at = NOW()
		WHERE source_id = $1 AND status = 'active'
	`
	err := r.DB.ExecContext(ctx, query, sourceID)
	if err != nil {
		logger.Error("BlockRepository:CancelBySource", err)
		return err
	}
	return nil
}

func (r *BlockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BlockStatus) error {
	query := `UPDATE resource_blocks SET status = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		logger.Error("BlockRepository:UpdateStatus", err)
		return err
	}
	return nil
}
