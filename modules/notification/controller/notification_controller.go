package controller

import (
	"strconv"

	"stayops/core/controller"
	"stayops/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// NotificationController exposes the delivery feed for operators
type NotificationController struct {
	controller.BaseController
	Service service.NotificationServiceInterface
}

func NewNotificationController(svc service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		BaseController: controller.NewBaseController(),
		Service:        svc,
	}
}

// ListRecent handles GET /notifications
func (c *NotificationController) ListRecent(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	notifications, appErr := c.Service.ListRecent(ctx.Request().Context(), limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, notifications, "Success")
}
