package property

import (
	"stayops/core/cache"
	"stayops/core/database"
	"stayops/core/middleware"
	"stayops/modules/property/controller"
	"stayops/modules/property/repository"
	"stayops/modules/property/router"
	"stayops/modules/property/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the property module and registers routes.
// Returns the service so the pipeline can resolve properties during validation.
func Init(e *echo.Echo, db database.Database, c cache.Cache, mw *middleware.Middleware) service.PropertyServiceInterface {
	repo := repository.NewPropertyRepository(db)
	svc := service.NewPropertyService(repo, c)
	ctrl := controller.NewPropertyController(svc)
	router.NewPropertyRouter(ctrl).Setup(e, mw)
	return svc
}
