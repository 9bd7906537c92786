package controller

import (
	"stayops/core/controller"
	"stayops/core/errors"
	"stayops/core/params"
	"stayops/modules/property/dto"
	"stayops/modules/property/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PropertyController handles property HTTP requests
type PropertyController struct {
	controller.BaseController
	PropertyService service.PropertyServiceInterface
}

func NewPropertyController(svc service.PropertyServiceInterface) *PropertyController {
	return &PropertyController{
		BaseController:  controller.NewBaseController(),
		PropertyService: svc,
	}
}

// CreateProperty handles POST /properties
func (c *PropertyController) CreateProperty(ctx echo.Context) error {
	var req dto.CreatePropertyRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.PropertyService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Property created successfully")
}

// GetProperty handles GET /properties/:id
func (c *PropertyController) GetProperty(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid property ID")
	}

	result, appErr := c.PropertyService.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListProperties handles GET /properties
func (c *PropertyController) ListProperties(ctx echo.Context) error {
	result, appErr := c.PropertyService.List(ctx.Request().Context(), params.FromEcho(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
