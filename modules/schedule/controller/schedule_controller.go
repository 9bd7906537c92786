package controller

import (
	"time"

	"stayops/core/controller"
	"stayops/core/errors"
	"stayops/modules/schedule/dto"
	"stayops/modules/schedule/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ScheduleController handles availability and block HTTP requests
type ScheduleController struct {
	controller.BaseController
	ScheduleService service.ScheduleServiceInterface
}

func NewScheduleController(svc service.ScheduleServiceInterface) *ScheduleController {
	return &ScheduleController{
		BaseController:  controller.NewBaseController(),
		ScheduleService: svc,
	}
}

// GetAvailability handles GET /properties/:id/availability?start=...&end=...
func (c *ScheduleController) GetAvailability(ctx echo.Context) error {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid property ID")
	}

	start, err := time.Parse(time.RFC3339, ctx.QueryParam("start"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid start time, expected RFC3339")
	}
	end, err := time.Parse(time.RFC3339, ctx.QueryParam("end"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid end time, expected RFC3339")
	}
	if !end.After(start) {
		return c.BadRequest(errors.ErrInvalidInput, "End must be after start")
	}

	result, appErr := c.ScheduleService.Availability(ctx.Request().Context(), propertyID, start, end)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CreateBlock handles POST /properties/:id/blocks
func (c *ScheduleController) CreateBlock(ctx echo.Context) error {
	propertyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid property ID")
	}

	var req dto.CreateBlockRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ScheduleService.CreateManualBlock(ctx.Request().Context(), propertyID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Block created successfully")
}

// CancelBlock handles DELETE /blocks/:id
func (c *ScheduleController) CancelBlock(ctx echo.Context) error {
	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}

	if appErr := c.ScheduleService.CancelBlock(ctx.Request().Context(), blockID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Block cancelled")
}
