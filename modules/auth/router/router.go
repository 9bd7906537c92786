package router

import (
	"stayops/core/middleware"
	"stayops/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles authentication routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{AuthController: authController}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	v1.POST("/public/auth/login", r.AuthController.Login)
	v1.POST("/private/auth/logout", r.AuthController.Logout, mw.AuthMiddleware())
	v1.GET("/private/auth/me", r.AuthController.Me, mw.AuthMiddleware())
}
