package controller

import (
	"stayops/core/controller"
	"stayops/core/errors"
	"stayops/modules/reservation/dto"
	"stayops/modules/reservation/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReservationController handles reservation HTTP requests
type ReservationController struct {
	controller.BaseController
	ReservationService service.ReservationServiceInterface
}

func NewReservationController(svc service.ReservationServiceInterface) *ReservationController {
	return &ReservationController{
		BaseController:     controller.NewBaseController(),
		ReservationService: svc,
	}
}

// CreateReservation handles POST /reservations (public intake)
func (c *ReservationController) CreateReservation(ctx echo.Context) error {
	var req dto.CreateReservationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ReservationService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Reservation received and queued for processing")
}

// GetReservation handles GET /reservations/:id
func (c *ReservationController) GetReservation(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid reservation ID")
	}

	result, appErr := c.ReservationService.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListReservations handles GET /properties/:id/reservations
func (c *ReservationController) ListReservations(ctx echo.Context) error {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid property ID")
	}

	result, appErr := c.ReservationService.ListByProperty(ctx.Request().Context(), propertyID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CancelReservation handles POST /reservations/:id/cancel
func (c *ReservationController) CancelReservation(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid reservation ID")
	}

	if appErr := c.ReservationService.Cancel(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Reservation cancelled")
}

// ResubmitReservation handles POST /reservations/:id/resubmit
func (c *ReservationController) ResubmitReservation(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid reservation ID")
	}

	if appErr := c.ReservationService.Resubmit(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Reservation resubmitted for processing")
}
