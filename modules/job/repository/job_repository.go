package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"stayops/core/database"
	"stayops/core/logger"
	"stayops/modules/job/dto"
	"stayops/modules/job/entity"

	"github.com/google/uuid"
)

// JobRepositoryInterface defines the repository contract
type JobRepositoryInterface interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]entity.Job, error)
	ListUnassigned(ctx context.Context, limit int) ([]entity.Job, error)
	Assign(ctx context.Context, id uuid.UUID, staffID uuid.UUID) (bool, error)
	MarkUnassigned(ctx context.Context, id uuid.UUID, cause entity.UnassignedCause) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus) error
	CancelByReservation(ctx context.Context, reservationID uuid.UUID) error
	CreateAudit(ctx context.Context, audit *dto.AssignmentAudit) error
}

type JobRepository struct {
	DB database.Database
}

func NewJobRepository(db database.Database) *JobRepository {
	return &JobRepository{DB: db}
}

const jobColumns = `id, type, property_id, reservation_id, scheduled_at, duration_minutes, priority, required_capabilities, assigned_to, status, unassigned_cause, created_at, updated_at`

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	query := `
		INSERT INTO jobs (id, type, property_id, reservation_id, scheduled_at, duration_minutes, priority, required_capabilities, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.DB.GetContext(ctx, job, query,
		job.ID, job.Type, job.PropertyID, job.ReservationID,
		job.ScheduledAt, job.DurationMinutes, job.Priority,
		job.RequiredCapabilities, job.Status,
	)
	if err != nil {
		logger.Error("JobRepository:Create", err)
		return err
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var job entity.Job
	err := r.DB.GetContext(ctx, &job, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("JobRepository:GetByID", err)
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE reservation_id = $1 ORDER BY scheduled_at`

	var jobs []entity.Job
	err := r.DB.SelectContext(ctx, &jobs, query, reservationID)
	if err != nil {
		logger.Error("JobRepository:ListByReservation", err)
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepository) ListUnassigned(ctx context.Context, limit int) ([]entity.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE status = 'pending' AND assigned_to IS NULL
		ORDER BY scheduled_at
		LIMIT $1
	`
	var jobs []entity.Job
	err := r.DB.SelectContext(ctx, &jobs, query, limit)
	if err != nil {
		logger.Error("JobRepository:ListUnassigned", err)
		return nil, err
	}
	return jobs, nil
}

// Assign commits the winning candidate with a compare-and-set on status, so
// the assignment reference and the status transition land together or not at
// all. Returns false when the job is no longer pending.
func (r *JobRepository) Assign(ctx context.Context, id uuid.UUID, staffID uuid.UUID) (bool, error) {
	query := `
		UPDATE jobs
		SET assigned_to = $2, status = 'assigned', unassigned_cause = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND assigned_to IS NULL
	`
	result, err := r.DB.ExecContextResult(ctx, query, id, staffID)
	if err != nil {
		logger.Error("JobRepository:Assign", err)
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *JobRepository) MarkUnassigned(ctx context.Context, id uuid.UUID, cause entity.UnassignedCause) error {
	query := `
		UPDATE jobs
		SET unassigned_cause = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	err := r.DB.ExecContext(ctx, query, id, cause)
	if err != nil {
		logger.Error("JobRepository:MarkUnassigned", err)
		return err
	}
	return nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus) error {
	query := `UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		logger.Error("JobRepository:UpdateStatus", err)
		return err
	}
	return nil
}

func (r *JobRepository) CancelByReservation(ctx context.Context, reservationID uuid.UUID) error {
	query := `
		UPDATE jobs
		SET status = 'cancelled', updated_at = NOW()
		WHERE reservation_id = $1 AND status IN ('pending', 'assigned')
	`
	err := r.DB.ExecContext(ctx, query, reservationID)
	if err != nil {
		logger.Error("JobRepository:CancelByReservation", err)
		return err
	}
	return nil
}

func (r *JobRepository) CreateAudit(ctx context.Context, audit *dto.AssignmentAudit) error {
	rankings, err := json.Marshal(audit.Rankings)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO assignment_audits (id, job_id, job_type, assigned_to, cause, rankings, decided_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	`
	err = r.DB.ExecContext(ctx, query,
		uuid.New(), audit.JobID, audit.JobType, audit.AssignedTo, audit.Cause, rankings, audit.DecidedAt,
	)
	if err != nil {
		logger.Error("JobRepository:CreateAudit", err)
		return err
	}
	return nil
}
