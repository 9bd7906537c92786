package router

import (
	"stayops/core/middleware"
	"stayops/modules/job/controller"

	"github.com/labstack/echo/v4"
)

// JobRouter handles work-item routes
type JobRouter struct {
	JobController *controller.JobController
}

func NewJobRouter(jobController *controller.JobController) *JobRouter {
	return &JobRouter{JobController: jobController}
}

// Setup registers job routes
func (r *JobRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	jobRoutes := v1.Group("/private/jobs", mw.AuthMiddleware())
	jobRoutes.GET("/unassigned", r.JobController.ListUnassigned)
	jobRoutes.GET("/:id", r.JobController.GetJob)
	jobRoutes.POST("/:id/assign", r.JobController.RetryAssignment)
	jobRoutes.POST("/:id/status", r.JobController.UpdateStatus)

	reservationRoutes := v1.Group("/private/reservations", mw.AuthMiddleware())
	reservationRoutes.GET("/:id/jobs", r.JobController.ListByReservation)
}
