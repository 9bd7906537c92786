package notification

import (
	"stayops/core/database"
	"stayops/core/middleware"
	"stayops/modules/notification/controller"
	"stayops/modules/notification/repository"
	"stayops/modules/notification/router"
	"stayops/modules/notification/service"
	"stayops/modules/pipeline/events"

	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes.
// Returns the pipeline subscriber and the repository for the delivery worker.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, client service.TaskEnqueuer) (events.Subscriber, *repository.NotificationRepository) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, client)
	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Setup(e, mw)
	return service.NewPipelineSubscriber(svc), repo
}
