package router

import (
	"stayops/core/middleware"
	"stayops/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

// ScheduleRouter handles availability and block routes
type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{ScheduleController: scheduleController}
}

// Setup registers schedule routes
func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Availability is public: booking widgets query it without auth.
	v1.GET("/properties/:id/availability", r.ScheduleController.GetAvailability)

	private := v1.Group("/private", mw.AuthMiddleware())
	private.POST("/properties/:id/blocks", r.ScheduleController.CreateBlock)
	private.DELETE("/blocks/:id", r.ScheduleController.CancelBlock)
}
