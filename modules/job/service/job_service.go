package service

import (
	"context"
	"time"

	"stayops/core/config"
	"stayops/core/errors"
	"stayops/core/logger"
	"stayops/modules/job/dto"
	"stayops/modules/job/entity"
	"stayops/modules/job/repository"

	"github.com/google/uuid"
)

// JobServiceInterface defines the service contract
type JobServiceInterface interface {
	DeriveForReservation(ctx context.Context, reservationID, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]entity.Job, *errors.AppError)
	AssignPending(ctx context.Context, job *entity.Job) (*uuid.UUID, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, *errors.AppError)
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]entity.Job, *errors.AppError)
	ListUnassigned(ctx context.Context, limit int) ([]entity.Job, *errors.AppError)
	RetryAssignment(ctx context.Context, id uuid.UUID) (*dto.RetryAssignmentResponse, *errors.AppError)
	RetryUnassigned(ctx context.Context) (int, *errors.AppError)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus) (*entity.Job, *errors.AppError)
	CancelByReservation(ctx context.Context, reservationID uuid.UUID) *errors.AppError
}

type JobService struct {
	Repo      repository.JobRepositoryInterface
	Allocator *Allocator
	Jobs      config.JobsConfig
}

func NewJobService(repo repository.JobRepositoryInterface, allocator *Allocator, jobs config.JobsConfig) *JobService {
	return &JobService{Repo: repo, Allocator: allocator, Jobs: jobs}
}

// DeriveForReservation synthesizes the configured pre-service and
// post-service work items for a confirmed stay. Pre-service items are
// anchored before check-in, post-service items after check-out.
//
// Derivation is idempotent per (reservation, type): a retried expansion only
// fills in the types a previous attempt failed to persist, never a second
// full set. Returns the items still awaiting assignment.
func (s *JobService) DeriveForReservation(ctx context.Context, reservationID, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]entity.Job, *errors.AppError) {
	existing, err := s.Repo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "Failed to load existing work items", nil)
	}

	have := make(map[string]bool, len(existing))
	out := make([]entity.Job, 0, len(s.Jobs.PreService)+len(s.Jobs.PostService))
	for _, job := range existing {
		have[job.Type] = true
		if job.Status == entity.JobPending {
			out = append(out, job)
		}
	}

	var specs []entity.Job
	for _, spec := range s.Jobs.PreService {
		if have[spec.Type] {
			continue
		}
		have[spec.Type] = true
		specs = append(specs, s.buildJob(reservationID, propertyID, spec, checkIn.Add(-time.Duration(spec.OffsetHours)*time.Hour)))
	}
	for _, spec := range s.Jobs.PostService {
		if have[spec.Type] {
			continue
		}
		have[spec.Type] = true
		specs = append(specs, s.buildJob(reservationID, propertyID, spec, checkOut.Add(time.Duration(spec.OffsetHours)*time.Hour)))
	}

	for i := range specs {
		if err := s.Repo.Create(ctx, &specs[i]); err != nil {
			return nil, errors.NewAppError(errors.ErrDatabase, "Failed to create work item", map[string]any{"type": specs[i].Type})
		}
		out = append(out, specs[i])
	}

	logger.Info("JobService:DeriveForReservation",
		"reservation_id", reservationID,
		"created", len(specs),
		"pending", len(out),
	)
	return out, nil
}

func (s *JobService) buildJob(reservationID, propertyID uuid.UUID, spec config.JobSpec, scheduledAt time.Time) entity.Job {
	job := entity.Job{
		Type:                 spec.Type,
		PropertyID:           propertyID,
		ReservationID:        reservationID,
		ScheduledAt:          scheduledAt,
		DurationMinutes:      spec.DurationMinutes,
		Priority:             entity.JobPriority(spec.Priority),
		RequiredCapabilities: spec.Capabilities,
		Status:               entity.JobPending,
	}
	job.ID = uuid.New()
	return job
}

// AssignPending runs one allocation pass for a pending job.
func (s *JobService) AssignPending(ctx context.Context, job *entity.Job) (*uuid.UUID, *errors.AppError) {
	winner, appErr := s.Allocator.Assign(ctx, job)
	if appErr != nil {
		return nil, appErr
	}
	if winner == nil {
		return nil, nil
	}
	return &winner.ID, nil
}

func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, *errors.AppError) {
	job, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "Failed to get work item", nil)
	}
	if job == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Work item not found", nil)
	}
	return job, nil
}

func (s *JobService) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]entity.Job, *errors.AppError) {
	jobs, err := s.Repo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "Failed to list work items", nil)
	}
	return jobs, nil
}

func (s *JobService) ListUnassigned(ctx context.Context, limit int) ([]entity.Job, *errors.AppError) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	jobs, err := s.Repo.ListUnassigned(ctx, limit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "Failed to list unassigned work items", nil)
	}
	return jobs, nil
}

// RetryAssignment re-runs the allocator for one pending job on operator
// request.
func (s *JobService) RetryAssignment(ctx context.Context, id uuid.UUID) (*dto.RetryAssignmentResponse, *errors.AppError) {
	job, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if job.Status != entity.JobPending {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Work item is not pending assignment", map[string]any{"status": job.Status})
	}

	assignedTo, appErr := s.AssignPending(ctx, job)
	if appErr != nil {
		return nil, appErr
	}

	resp := &dto.RetryAssignmentResponse{JobID: job.ID, AssignedTo: assignedTo}
	if assignedTo == nil {
		refreshed, err := s.Repo.GetByID(ctx, id)
		if err == nil && refreshed != nil && refreshed.UnassignedCause != nil {
			resp.Cause = *refreshed.UnassignedCause
		}
	}
	return resp, nil
}

// RetryUnassigned sweeps pending unassigned jobs and re-runs allocation for
// each. Invoked by the periodic background task. Returns how many were
// placed.
func (s *JobService) RetryUnassigned(ctx context.Context) (int, *errors.AppError) {
	jobs, appErr := s.ListUnassigned(ctx, 100)
	if appErr != nil {
		return 0, appErr
	}

	assigned := 0
	for i := range jobs {
		winner, appErr := s.AssignPending(ctx, &jobs[i])
		if appErr != nil {
			logger.Warn("JobService:RetryUnassigned:item_failed",
				"job_id", jobs[i].ID,
				"error", appErr.Message,
			)
			continue
		}
		if winner != nil {
			assigned++
		}
	}

	if len(jobs) > 0 {
		logger.Info("JobService:RetryUnassigned", "swept", len(jobs), "assigned", assigned)
	}
	return assigned, nil
}

// UpdateStatus advances a work item through its lifecycle. Assignment goes
// through the allocator's compare-and-set; this covers the transitions staff
// and operators drive after that.
func (s *JobService) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus) (*entity.Job, *errors.AppError) {
	job, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if !validTransition(job.Status, status) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid status transition",
			map[string]any{"from": job.Status, "to": status})
	}

	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "Failed to update work item status", nil)
	}
	job.Status = status

	logger.Info("JobService:UpdateStatus", "job_id", id, "status", status)
	return job, nil
}

func validTransition(from, to entity.JobStatus) bool {
	switch from {
	case entity.JobPending:
		return to == entity.JobCancelled
	case entity.JobAssigned:
		return to == entity.JobInProgress || to == entity.JobCancelled
	case entity.JobInProgress:
		return to == entity.JobCompleted || to == entity.JobCancelled
	}
	return false
}

func (s *JobService) CancelByReservation(ctx context.Context, reservationID uuid.UUID) *errors.AppError {
	if err := s.Repo.CancelByReservation(ctx, reservationID); err != nil {
		return errors.NewAppError(errors.ErrDatabase, "Failed to cancel work items", nil)
	}
	return nil
}
