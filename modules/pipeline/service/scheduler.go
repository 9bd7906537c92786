package service

import (
	"context"
	"sync"
	"time"

	"stayops/core/config"
	"stayops/core/errors"
	"stayops/core/logger"
	"stayops/core/utils"
	jobEntity "stayops/modules/job/entity"
	"stayops/modules/pipeline/events"
	resDto "stayops/modules/reservation/dto"
	resEntity "stayops/modules/reservation/entity"
	resService "stayops/modules/reservation/service"
	scheduleDto "stayops/modules/schedule/dto"
	scheduleEntity "stayops/modules/schedule/entity"
	scheduleService "stayops/modules/schedule/service"

	"github.com/google/uuid"
)

// ReservationStore is the slice of the reservation repository the scheduler
// drives status transitions through.
type ReservationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*resEntity.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status resEntity.ReservationStatus, reason string) error
	MarkJobsCreated(ctx context.Context, id uuid.UUID) error
}

// RequestValidator runs the ordered rule set over one reservation.
type RequestValidator interface {
	Validate(ctx context.Context, r *resEntity.Reservation) *resDto.ValidationResult
}

// BlockService is the schedule surface the scheduler commits through.
type BlockService interface {
	CheckAvailability(ctx context.Context, propertyID uuid.UUID, start, end time.Time) (*scheduleDto.AvailabilityResult, *errors.AppError)
	CreateBookingBlocks(ctx context.Context, propertyID, reservationID uuid.UUID, start, end time.Time, bufferHours int) ([]scheduleEntity.ResourceBlock, *errors.AppError)
	CancelBlock(ctx context.Context, blockID uuid.UUID) *errors.AppError
	Resolve(ctx context.Context, start, end time.Time, conflicts []scheduleEntity.ResourceBlock) *scheduleService.Resolution
}

// WorkItemService derives and assigns the follow-on work for a confirmed stay.
type WorkItemService interface {
	DeriveForReservation(ctx context.Context, reservationID, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]jobEntity.Job, *errors.AppError)
	AssignPending(ctx context.Context, job *jobEntity.Job) (*uuid.UUID, *errors.AppError)
}

// Publisher fans pipeline events out to collaborators.
type Publisher interface {
	Publish(ctx context.Context, e events.Event)
}

// propertyLocks serializes block commits per property so two overlapping
// reservations for the same property cannot both pass the commit-time
// conflict recheck.
type propertyLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newPropertyLocks() *propertyLocks {
	return &propertyLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (p *propertyLocks) lock(propertyID uuid.UUID) func() {
	p.mu.Lock()
	l, ok := p.locks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[propertyID] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Scheduler owns the queued → processing → terminal state machine for one
// reservation. It is the only layer that distinguishes retryable from
// terminal faults.
type Scheduler struct {
	store     ReservationStore
	validator RequestValidator
	blocks    BlockService
	jobs      WorkItemService
	publisher Publisher
	cfg       config.PipelineConfig
	commits   *propertyLocks
}

func NewScheduler(
	store ReservationStore,
	validator RequestValidator,
	blocks BlockService,
	jobs WorkItemService,
	publisher Publisher,
	cfg config.PipelineConfig,
) *Scheduler {
	return &Scheduler{
		store:     store,
		validator: validator,
		blocks:    blocks,
		jobs:      jobs,
		publisher: publisher,
		cfg:       cfg,
		commits:   newPropertyLocks(),
	}
}

// SetPublisher attaches the event fanout after construction. The coordinator
// owns the queue the scheduler feeds, so the two are wired in two steps.
func (s *Scheduler) SetPublisher(p Publisher) {
	s.publisher = p
}

// Process runs one reservation through validation, conflict resolution, block
// commit and work-item derivation. A nil return means the item reached a
// recorded state (or was already past pending); a retryable error sends it
// back through the queue's retry budget.
func (s *Scheduler) Process(ctx context.Context, id uuid.UUID) *errors.AppError {
	reservation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrDatabase, "failed to load reservation", nil)
	}
	if reservation == nil {
		logger.Warn("Scheduler:Process:unknown_reservation", "id", id)
		return nil
	}

	// Re-fetch defends against duplicate feed deliveries: act only on the
	// current persisted status, never the enqueued snapshot.
	switch reservation.Status {
	case resEntity.ReservationStatusPending:
		return s.processPending(ctx, reservation)
	case resEntity.ReservationStatusConfirmed:
		if !reservation.JobsCreated {
			return s.deriveJobs(ctx, reservation)
		}
		return nil
	default:
		logger.Debug("Scheduler:Process:skipped", "id", id, "status", reservation.Status)
		return nil
	}
}

// MarkError records the terminal system-error state after the retry budget
// is exhausted. Invoked by the queue.
func (s *Scheduler) MarkError(id uuid.UUID, lastErr *errors.AppError) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ItemTimeout)
	defer cancel()

	reason := "processing failed after retries"
	if lastErr != nil && lastErr.Message != "" {
		reason = lastErr.Message
	}
	if err := s.store.UpdateStatus(ctx, id, resEntity.ReservationStatusError, reason); err != nil {
		logger.Error("Scheduler:MarkError", "id", id, "error", err.Error())
		return
	}
	s.publish(ctx, events.Event{
		Type:          events.ReservationError,
		ReservationID: id,
		Payload:       map[string]any{"reason": reason},
	})
}

func (s *Scheduler) processPending(ctx context.Context, reservation *resEntity.Reservation) *errors.AppError {
	result := s.validator.Validate(ctx, reservation)

	if !result.Valid {
		if result.Reason == resService.ReasonSystemError {
			// Validation swallowed an infrastructure fault; surface it as
			// retryable instead of terminally rejecting the request.
			return errors.NewAppError(errors.ErrDependencyUnavailable, result.Reason, result.Details)
		}
		if result.Reason == resService.ReasonEventConflict {
			return s.resolveSoftConflicts(ctx, reservation, result)
		}
		return s.reject(ctx, reservation, result.Reason, result.Details)
	}

	return s.confirm(ctx, reservation)
}

// resolveSoftConflicts handles windows blocked only by calendar events. An
// auto-resolvable set is cleared out of the way and the reservation proceeds;
// anything else parks the reservation for manual review.
func (s *Scheduler) resolveSoftConflicts(ctx context.Context, reservation *resEntity.Reservation, result *resDto.ValidationResult) *errors.AppError {
	resolution := s.blocks.Resolve(ctx, reservation.CheckIn, reservation.CheckOut, result.Conflicts)

	if !resolution.CanAutoResolve {
		if err := s.store.UpdateStatus(ctx, reservation.ID, resEntity.ReservationStatusManualReview, resolution.Reasoning); err != nil {
			return errors.NewAppError(errors.ErrDatabase, "failed to park reservation for review", nil)
		}
		logger.Info("Scheduler:resolveSoftConflicts:escalated",
			"reservation_id", reservation.ID,
			"severity", resolution.Severity,
		)
		s.publish(ctx, events.Event{
			Type:          events.ReservationManualReview,
			ReservationID: reservation.ID,
			PropertyID:    reservation.PropertyID,
			Payload: map[string]any{
				"severity":          resolution.Severity,
				"reasoning":         resolution.Reasoning,
				"suggested_actions": resolution.SuggestedActions,
				"conflicts":         result.Conflicts,
			},
		})
		return nil
	}

	for _, block := range resolution.Resolvable {
		if appErr := s.blocks.CancelBlock(ctx, block.ID); appErr != nil {
			return errors.NewAppError(errors.ErrDatabase, "failed to reschedule conflicting event", nil)
		}
		s.publish(ctx, events.Event{
			Type:          events.BlockCancelled,
			ReservationID: reservation.ID,
			PropertyID:    reservation.PropertyID,
			Payload:       map[string]any{"block_id": block.ID, "kind": block.Kind},
		})
	}
	logger.Info("Scheduler:resolveSoftConflicts:auto_resolved",
		"reservation_id", reservation.ID,
		"rescheduled", len(resolution.Resolvable),
	)

	return s.confirm(ctx, reservation)
}

// confirm commits blocks and flips the reservation to confirmed. The commit
// runs under the property lock with a fresh conflict recheck, so the second
// of two racing overlapping reservations is rejected rather than written.
func (s *Scheduler) confirm(ctx context.Context, reservation *resEntity.Reservation) *errors.AppError {
	unlock := s.commits.lock(reservation.PropertyID)

	availability, appErr := s.blocks.CheckAvailability(ctx, reservation.PropertyID, reservation.CheckIn, reservation.CheckOut)
	if appErr != nil {
		unlock()
		return errors.NewAppError(errors.ErrDatabase, "commit-time availability check failed", nil)
	}
	if !availability.Available {
		unlock()
		return s.reject(ctx, reservation, resService.ReasonBookingConflict,
			map[string]any{"conflict_count": len(availability.Conflicts)})
	}

	blocks, appErr := s.blocks.CreateBookingBlocks(ctx, reservation.PropertyID, reservation.ID,
		reservation.CheckIn, reservation.CheckOut, s.cfg.BufferHours)
	if appErr != nil {
		unlock()
		return errors.NewAppError(errors.ErrDatabase, "failed to create booking blocks", nil)
	}

	if err := s.store.UpdateStatus(ctx, reservation.ID, resEntity.ReservationStatusConfirmed, ""); err != nil {
		unlock()
		return errors.NewAppError(errors.ErrDatabase, "failed to confirm reservation", nil)
	}
	unlock()

	logger.Info("Scheduler:confirm", "reservation_id", reservation.ID, "blocks", len(blocks))
	for _, block := range blocks {
		s.publish(ctx, events.Event{
			Type:          events.BlockCreated,
			ReservationID: reservation.ID,
			PropertyID:    reservation.PropertyID,
			Payload:       map[string]any{"block_id": block.ID, "kind": block.Kind},
		})
	}
	s.publish(ctx, events.Event{
		Type:          events.ReservationConfirmed,
		ReservationID: reservation.ID,
		PropertyID:    reservation.PropertyID,
		Payload: map[string]any{
			"guest_email": reservation.GuestEmail,
			"check_in":    reservation.CheckIn,
			"check_out":   reservation.CheckOut,
		},
	})

	return s.deriveJobs(ctx, reservation)
}

// deriveJobs expands a confirmed reservation into its work items and runs one
// allocation pass per item. A failed sibling never blocks the others; the
// reservation is marked expanded once every item has been attempted.
func (s *Scheduler) deriveJobs(ctx context.Context, reservation *resEntity.Reservation) *errors.AppError {
	jobs, appErr := s.jobs.DeriveForReservation(ctx, reservation.ID, reservation.PropertyID,
		reservation.CheckIn, reservation.CheckOut)
	if appErr != nil {
		return errors.NewAppError(errors.ErrDatabase, "failed to derive work items", nil)
	}

	for i := range jobs {
		job := &jobs[i]
		s.publish(ctx, events.Event{
			Type:          events.JobCreated,
			ReservationID: reservation.ID,
			PropertyID:    reservation.PropertyID,
			Payload:       map[string]any{"job_id": job.ID, "type": job.Type, "scheduled_at": job.ScheduledAt},
		})

		assignedTo, appErr := s.jobs.AssignPending(ctx, job)
		if appErr != nil {
			logger.Warn("Scheduler:deriveJobs:assignment_failed",
				"reservation_id", reservation.ID,
				"job_id", job.ID,
				"error", appErr.Message,
			)
			continue
		}
		if assignedTo == nil {
			s.publish(ctx, events.Event{
				Type:          events.JobUnassigned,
				ReservationID: reservation.ID,
				PropertyID:    reservation.PropertyID,
				Payload:       map[string]any{"job_id": job.ID, "type": job.Type},
			})
			continue
		}
		s.publish(ctx, events.Event{
			Type:          events.JobAssigned,
			ReservationID: reservation.ID,
			PropertyID:    reservation.PropertyID,
			Payload:       map[string]any{"job_id": job.ID, "type": job.Type, "staff_id": *assignedTo},
		})
	}

	if err := s.store.MarkJobsCreated(ctx, reservation.ID); err != nil {
		return errors.NewAppError(errors.ErrDatabase, "failed to mark work items created", nil)
	}
	return nil
}

func (s *Scheduler) reject(ctx context.Context, reservation *resEntity.Reservation, reason string, details map[string]any) *errors.AppError {
	if err := s.store.UpdateStatus(ctx, reservation.ID, resEntity.ReservationStatusRejected, reason); err != nil {
		return errors.NewAppError(errors.ErrDatabase, "failed to record rejection", nil)
	}
	logger.Info("Scheduler:reject", "reservation_id", reservation.ID, "reason", reason)
	s.publish(ctx, events.Event{
		Type:          events.ReservationRejected,
		ReservationID: reservation.ID,
		PropertyID:    reservation.PropertyID,
		Payload:       map[string]any{"guest_email": reservation.GuestEmail, "reason": reason, "details": details},
	})
	return nil
}

func (s *Scheduler) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	e.ID = utils.GenerateID()
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	s.publisher.Publish(ctx, e)
}
