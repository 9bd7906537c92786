package service

import (
	"context"
	"time"

	"stayops/core/errors"
	"stayops/core/logger"
	"stayops/modules/schedule/dto"
	"stayops/modules/schedule/entity"
	"stayops/modules/schedule/repository"

	"github.com/google/uuid"
)

// ScheduleServiceInterface defines the service contract
type ScheduleServiceInterface interface {
	CheckAvailability(ctx context.Context, propertyID uuid.UUID, start, end time.Time) (*dto.AvailabilityResult, *errors.AppError)
	Availability(ctx context.Context, propertyID uuid.UUID, start, end time.Time) (*dto.AvailabilityResponse, *errors.AppError)
	CreateBookingBlocks(ctx context.Context, propertyID, reservationID uuid.UUID, start, end time.Time, bufferHours int) ([]entity.ResourceBlock, *errors.AppError)
	CreateManualBlock(ctx context.Context, propertyID uuid.UUID, req *dto.CreateBlockRequest) (*entity.ResourceBlock, *errors.AppError)
	CancelBlocksByReservation(ctx context.Context, reservationID uuid.UUID) *errors.AppError
	CancelBlock(ctx context.Context, blockID uuid.UUID) *errors.AppError
	Resolve(ctx context.Context, start, end time.Time, conflicts []entity.ResourceBlock) *Resolution
}

type ScheduleService struct {
	repo     repository.BlockRepositoryInterface
	engine   *ConflictEngine
	resolver *ConflictResolver
}

func NewScheduleService(repo repository.BlockRepositoryInterface) ScheduleServiceInterface {
	return &ScheduleService{
		repo:     repo,
		engine:   NewConflictEngine(),
		resolver: NewConflictResolver(),
	}
}

// CheckAvailability loads the property's active blocks and runs the conflict engine.
func (s *ScheduleService) CheckAvailability(ctx context.Context, propertyID uuid.UUID, start, end time.Time) (*dto.AvailabilityResult, *errors.AppError) {
	blocks, err := s.repo.ListActiveByProperty(ctx, propertyID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to load blocks", err)
	}

	result := s.engine.CheckAvailability(blocks, start, end)
	return &result, nil
}

// Availability is the query-endpoint variant: conflicts plus alternatives.
// The alternatives search shifts the window by whole days up to the scan
// horizon, so only blocks within that horizon are loaded.
func (s *ScheduleService) Availability(ctx context.Context, propertyID uuid.UUID, start, end time.Time) (*dto.AvailabilityResponse, *errors.AppError) {
	scan := alternativeScanDays * 24 * time.Hour
	blocks, err := s.repo.ListActiveByPropertyInRange(ctx, propertyID, start.Add(-scan), end.Add(scan))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to load blocks", err)
	}

	result := s.engine.CheckAvailability(blocks, start, end)
	resp := &dto.AvailabilityResponse{
		Available: result.Available,
		Conflicts: result.Conflicts,
	}
	if !result.Available {
		resp.Alternatives = s.engine.SuggestAlternatives(blocks, start, end)
	}
	return resp, nil
}

// CreateBookingBlocks commits the booking block plus one buffer block after
// check-out for turnover. Both reference the originating reservation.
func (s *ScheduleService) CreateBookingBlocks(ctx context.Context, propertyID, reservationID uuid.UUID, start, end time.Time, bufferHours int) ([]entity.ResourceBlock, *errors.AppError) {
	booking := &entity.ResourceBlock{
		PropertyID: propertyID,
		StartAt:    start,
		EndAt:      end,
		Kind:       entity.BlockKindBooking,
		Status:     entity.BlockStatusActive,
		SourceID:   &reservationID,
		SourceType: "reservation",
		Priority:   entity.BlockPriorityHigh,
	}
	createdBooking, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to create booking block", err)
	}

	buffer := &entity.ResourceBlock{
		PropertyID: propertyID,
		StartAt:    end,
		EndAt:      end.Add(time.Duration(bufferHours) * time.Hour),
		Kind:       entity.BlockKindBuffer,
		Status:     entity.BlockStatusActive,
		SourceID:   &reservationID,
		SourceType: "reservation",
		Priority:   entity.BlockPriorityLow,
	}
	createdBuffer, err := s.repo.Create(ctx, buffer)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to create buffer block", err)
	}

	logger.Info("ScheduleService:CreateBookingBlocks:Success",
		"property_id", propertyID,
		"reservation_id", reservationID,
		"booking_block_id", createdBooking.ID,
		"buffer_block_id", createdBuffer.ID,
	)

	return []entity.ResourceBlock{*createdBooking, *createdBuffer}, nil
}

func (s *ScheduleService) CreateManualBlock(ctx context.Context, propertyID uuid.UUID, req *dto.CreateBlockRequest) (*entity.ResourceBlock, *errors.AppError) {
	if !req.EndAt.After(req.StartAt) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "block end must be after start", nil)
	}

	kind := entity.BlockKind(req.Kind)
	switch kind {
	case entity.BlockKindMaintenance, entity.BlockKindOwnerUse, entity.BlockKindManual:
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unsupported block kind", req.Kind)
	}

	priority := entity.BlockPriority(req.Priority)
	if priority.Rank() == 0 {
		priority = entity.BlockPriorityMedium
	}

	block := &entity.ResourceBlock{
		PropertyID: propertyID,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Kind:       kind,
		Status:     entity.BlockStatusActive,
		SourceType: "manual",
		Priority:   priority,
	}
	if req.EventType != "" {
		block.EventType = &req.EventType
	}

	created, err := s.repo.Create(ctx, block)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to create block", err)
	}
	return created, nil
}

func (s *ScheduleService) CancelBlocksByReservation(ctx context.Context, reservationID uuid.UUID) *errors.AppError {
	if err := s.repo.CancelBySource(ctx, reservationID); err != nil {
		return errors.NewAppError(errors.ErrDatabase, "failed to cancel blocks", err)
	}
	return nil
}

func (s *ScheduleService) CancelBlock(ctx context.Context, blockID uuid.UUID) *errors.AppError {
	if err := s.repo.UpdateStatus(ctx, blockID, entity.BlockStatusCancelled); err != nil {
		return errors.NewAppError(errors.ErrDatabase, "failed to cancel block", err)
	}
	return nil
}

// Resolve classifies a conflict set; pure delegation to the resolver.
func (s *ScheduleService) Resolve(_ context.Context, start, end time.Time, conflicts []entity.ResourceBlock) *Resolution {
	return s.resolver.Resolve(start, end, conflicts)
}
