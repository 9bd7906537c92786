package repository

import (
	"context"
	"database/sql"
	"time"

	"stayops/core/database"
	"stayops/core/logger"
	"stayops/modules/staff/entity"

	"github.com/google/uuid"
)

// StaffRepositoryInterface defines the repository contract
type StaffRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error)
	ListAvailable(ctx context.Context) ([]entity.Staff, error)
	List(ctx context.Context) ([]entity.Staff, error)
	ActiveJobCount(ctx context.Context, staffID uuid.UUID) (int, error)
	CompletedCountByType(ctx context.Context, staffID uuid.UUID, jobType string) (int, error)
	HasOverlappingAssignment(ctx context.Context, staffID uuid.UUID, start, end time.Time) (bool, error)
}

type StaffRepository struct {
	DB database.Database
}

func NewStaffRepository(db database.Database) *StaffRepository {
	return &StaffRepository{DB: db}
}

const staffColumns = `id, name, email, capabilities, availability, work_start_hour, work_end_hour, work_days, completion_rate, average_rating, on_time_rate, completed_jobs, created_at, updated_at`

func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	var staff entity.Staff
	err := r.DB.GetContext(ctx, &staff, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("StaffRepository:GetByID", err)
		return nil, err
	}

	return &staff, nil
}

func (r *StaffRepository) ListAvailable(ctx context.Context) ([]entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE availability = 'available' ORDER BY id`

	var staff []entity.Staff
	err := r.DB.SelectContext(ctx, &staff, query)
	if err != nil {
		logger.Error("StaffRepository:ListAvailable", err)
		return nil, err
	}

	return staff, nil
}

func (r *StaffRepository) List(ctx context.Context) ([]entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY name`

	var staff []entity.Staff
	err := r.DB.SelectContext(ctx, &staff, query)
	if err != nil {
		logger.Error("StaffRepository:List", err)
		return nil, err
	}

	return staff, nil
}

func (r *StaffRepository) ActiveJobCount(ctx context.Context, staffID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM jobs WHERE assigned_to = $1 AND status IN ('assigned', 'in_progress')`
	err := r.DB.GetContext(ctx, &count, query, staffID)
	if err != nil {
		logger.Error("StaffRepository:ActiveJobCount", err)
		return 0, err
	}
	return count, nil
}

func (r *StaffRepository) CompletedCountByType(ctx context.Context, staffID uuid.UUID, jobType string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM jobs WHERE assigned_to = $1 AND type = $2 AND status = 'completed'`
	err := r.DB.GetContext(ctx, &count, query, staffID, jobType)
	if err != nil {
		logger.Error("StaffRepository:CompletedCountByType", err)
		return 0, err
	}
	return count, nil
}

// HasOverlappingAssignment checks half-open overlap between [start, end) and
// the scheduled windows of the staff member's active assignments.
func (r *StaffRepository) HasOverlappingAssignment(ctx context.Context, staffID uuid.UUID, start, end time.Time) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM jobs
		WHERE assigned_to = $1
		  AND status IN ('assigned', 'in_progress')
		  AND scheduled_at < $3
		  AND scheduled_at + (duration_minutes * interval '1 minute') > $2
	`
	err := r.DB.GetContext(ctx, &count, query, staffID, start, end)
	if err != nil {
		logger.Error("StaffRepository:HasOverlappingAssignment", err)
		return false, err
	}
	return count > 0, nil
}
