package controller

import (
	"strconv"

	"stayops/core/controller"
	"stayops/core/errors"
	"stayops/modules/job/dto"
	"stayops/modules/job/entity"
	"stayops/modules/job/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JobController exposes the work-item surface for operators
type JobController struct {
	controller.BaseController
	Service service.JobServiceInterface
}

func NewJobController(svc service.JobServiceInterface) *JobController {
	return &JobController{
		BaseController: controller.NewBaseController(),
		Service:        svc,
	}
}

// GetJob handles GET /jobs/:id
func (c *JobController) GetJob(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid job ID")
	}

	job, appErr := c.Service.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, job, "Success")
}

// ListByReservation handles GET /reservations/:id/jobs
func (c *JobController) ListByReservation(ctx echo.Context) error {
	reservationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid reservation ID")
	}

	jobs, appErr := c.Service.ListByReservation(ctx.Request().Context(), reservationID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, jobs, "Success")
}

// ListUnassigned handles GET /jobs/unassigned
func (c *JobController) ListUnassigned(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	jobs, appErr := c.Service.ListUnassigned(ctx.Request().Context(), limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, jobs, "Success")
}

// RetryAssignment handles POST /jobs/:id/assign
func (c *JobController) RetryAssignment(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid job ID")
	}

	resp, appErr := c.Service.RetryAssignment(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Assignment attempted")
}

// UpdateStatus handles POST /jobs/:id/status
func (c *JobController) UpdateStatus(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid job ID")
	}

	var req dto.UpdateJobStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	job, appErr := c.Service.UpdateStatus(ctx.Request().Context(), id, entity.JobStatus(req.Status))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, job, "Status updated")
}
