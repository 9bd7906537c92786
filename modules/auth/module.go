package auth

import (
	"stayops/core/cache"
	"stayops/core/database"
	"stayops/core/middleware"
	"stayops/modules/auth/controller"
	"stayops/modules/auth/repository"
	"stayops/modules/auth/router"
	"stayops/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, c cache.Cache) {
	repo := repository.NewUserRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	router.NewAuthRouter(ctrl).Setup(e, mw)
}
