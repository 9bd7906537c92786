package controller

import (
	"stayops/core/controller"
	"stayops/core/errors"
	"stayops/modules/staff/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// StaffController exposes the read-only staff directory
type StaffController struct {
	controller.BaseController
	Repo repository.StaffRepositoryInterface
}

func NewStaffController(repo repository.StaffRepositoryInterface) *StaffController {
	return &StaffController{
		BaseController: controller.NewBaseController(),
		Repo:           repo,
	}
}

// ListStaff handles GET /staff
func (c *StaffController) ListStaff(ctx echo.Context) error {
	staff, err := c.Repo.List(ctx.Request().Context())
	if err != nil {
		return c.InternalServerError(errors.ErrDatabase, "Failed to list staff")
	}
	return c.SuccessResponse(ctx, staff, "Success")
}

// GetStaff handles GET /staff/:id
func (c *StaffController) GetStaff(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid staff ID")
	}

	staff, repoErr := c.Repo.GetByID(ctx.Request().Context(), id)
	if repoErr != nil {
		return c.InternalServerError(errors.ErrDatabase, "Failed to get staff")
	}
	if staff == nil {
		return c.NotFound(errors.ErrNotFound, "Staff member not found")
	}
	return c.SuccessResponse(ctx, staff, "Success")
}
