package router

import (
	"stayops/core/middleware"
	"stayops/modules/property/controller"

	"github.com/labstack/echo/v4"
)

// PropertyRouter handles property routes
type PropertyRouter struct {
	PropertyController *controller.PropertyController
}

func NewPropertyRouter(propertyController *controller.PropertyController) *PropertyRouter {
	return &PropertyRouter{PropertyController: propertyController}
}

// Setup registers property routes
func (r *PropertyRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	propertyRoutes := v1.Group("/private/properties", mw.AuthMiddleware())
	propertyRoutes.POST("", r.PropertyController.CreateProperty)
	propertyRoutes.GET("", r.PropertyController.ListProperties)
	propertyRoutes.GET("/:id", r.PropertyController.GetProperty)
}
