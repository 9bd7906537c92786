package reservation

import (
	"stayops/core/database"
	"stayops/core/middleware"
	"stayops/modules/reservation/controller"
	"stayops/modules/reservation/repository"
	"stayops/modules/reservation/router"
	"stayops/modules/reservation/service"
	scheduleService "stayops/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the reservation module and registers routes.
// Returns the repository for the pipeline's feed and scheduler.
func Init(e *echo.Echo, db database.Database, schedule scheduleService.ScheduleServiceInterface, workItems service.WorkItemCanceller, mw *middleware.Middleware) (*repository.ReservationRepository, service.ReservationServiceInterface) {
	repo := repository.NewReservationRepository(db)
	svc := service.NewReservationService(repo, schedule, workItems)
	ctrl := controller.NewReservationController(svc)
	router.NewReservationRouter(ctrl).Setup(e, mw)
	return repo, svc
}
