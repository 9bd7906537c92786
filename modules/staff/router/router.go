package router

import (
	"stayops/core/middleware"
	"stayops/modules/staff/controller"

	"github.com/labstack/echo/v4"
)

// StaffRouter handles staff directory routes
type StaffRouter struct {
	StaffController *controller.StaffController
}

func NewStaffRouter(staffController *controller.StaffController) *StaffRouter {
	return &StaffRouter{StaffController: staffController}
}

// Setup registers staff routes
func (r *StaffRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	staffRoutes := v1.Group("/private/staff", mw.AuthMiddleware())
	staffRoutes.GET("", r.StaffController.ListStaff)
	staffRoutes.GET("/:id", r.StaffController.GetStaff)
}
