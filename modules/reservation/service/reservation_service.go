package service

import (
	"context"

	"stayops/core/errors"
	"stayops/core/logger"
	"stayops/modules/reservation/dto"
	"stayops/modules/reservation/entity"
	"stayops/modules/reservation/repository"

	"github.com/google/uuid"
)

// BlockReleaser cancels the schedule blocks a reservation holds.
type BlockReleaser interface {
	CancelBlocksByReservation(ctx context.Context, reservationID uuid.UUID) *errors.AppError
}

// WorkItemCanceller releases the derived work items of a cancelled stay.
type WorkItemCanceller interface {
	CancelByReservation(ctx context.Context, reservationID uuid.UUID) *errors.AppError
}

// ReservationServiceInterface defines the service contract
type ReservationServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateReservationRequest) (*entity.Reservation, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, *errors.AppError)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Reservation, *errors.AppError)
	Cancel(ctx context.Context, id uuid.UUID) *errors.AppError
	Resubmit(ctx context.Context, id uuid.UUID) *errors.AppError
}

type ReservationService struct {
	repo      repository.ReservationRepositoryInterface
	blocks    BlockReleaser
	workItems WorkItemCanceller
}

func NewReservationService(repo repository.ReservationRepositoryInterface, blocks BlockReleaser, workItems WorkItemCanceller) ReservationServiceInterface {
	return &ReservationService{repo: repo, blocks: blocks, workItems: workItems}
}

// Create persists an intake request as pending. The pipeline picks it up from
// the change feed; intake itself performs no validation beyond parsing.
func (s *ReservationService) Create(ctx context.Context, req *dto.CreateReservationRequest) (*entity.Reservation, *errors.AppError) {
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid property_id", nil)
	}

	reservation := &entity.Reservation{
		PropertyID:  propertyID,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		Guests:      req.Guests,
		TotalAmount: req.TotalAmount,
		Status:      entity.ReservationStatusPending,
		Extensions:  entity.JSONB(req.Extensions),
	}

	created, createErr := s.repo.Create(ctx, reservation)
	if createErr != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to create reservation", createErr)
	}

	logger.Info("ReservationService:Create:Success", "reservation_id", created.ID, "property_id", propertyID)
	return created, nil
}

func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, *errors.AppError) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to get reservation", err)
	}
	if reservation == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "reservation not found", nil)
	}
	return reservation, nil
}

func (s *ReservationService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Reservation, *errors.AppError) {
	reservations, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to list reservations", err)
	}
	return reservations, nil
}

// Cancel transitions a reservation to cancelled, releases its blocks and
// cancels any work items still open for the stay.
func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID) *errors.AppError {
	reservation, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return appErr
	}
	if reservation.Status == entity.ReservationStatusCancelled {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, id, entity.ReservationStatusCancelled, "cancelled by requester"); err != nil {
		return errors.NewAppError(errors.ErrDatabase, "failed to cancel reservation", err)
	}
	if appErr := s.blocks.CancelBlocksByReservation(ctx, id); appErr != nil {
		return appErr
	}
	if appErr := s.workItems.CancelByReservation(ctx, id); appErr != nil {
		return appErr
	}

	logger.Info("ReservationService:Cancel:Success", "reservation_id", id)
	return nil
}

// Resubmit moves a manually-reviewed reservation back to pending so the
// pipeline re-evaluates it. Only manual-review items may re-enter.
func (s *ReservationService) Resubmit(ctx context.Context, id uuid.UUID) *errors.AppError {
	reservation, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return appErr
	}
	if reservation.Status != entity.ReservationStatusManualReview {
		return errors.NewAppError(errors.ErrInvalidInput, "only reservations pending manual review can be resubmitted", nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, entity.ReservationStatusPending, "resubmitted after manual review"); err != nil {
		return errors.NewAppError(errors.ErrDatabase, "failed to resubmit reservation", err)
	}
	return nil
}
