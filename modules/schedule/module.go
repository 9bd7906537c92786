package schedule

import (
	"stayops/core/database"
	"stayops/core/middleware"
	"stayops/modules/schedule/controller"
	"stayops/modules/schedule/repository"
	"stayops/modules/schedule/router"
	"stayops/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the schedule module and registers routes.
// Returns the service so validation and the pipeline can run conflict checks.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) service.ScheduleServiceInterface {
	repo := repository.NewBlockRepository(db)
	svc := service.NewScheduleService(repo)
	ctrl := controller.NewScheduleController(svc)
	router.NewScheduleRouter(ctrl).Setup(e, mw)
	return svc
}
