package router

import (
	"stayops/core/middleware"
	"stayops/modules/reservation/controller"

	"github.com/labstack/echo/v4"
)

// ReservationRouter handles reservation routes
type ReservationRouter struct {
	ReservationController *controller.ReservationController
}

func NewReservationRouter(reservationController *controller.ReservationController) *ReservationRouter {
	return &ReservationRouter{ReservationController: reservationController}
}

// Setup registers reservation routes
func (r *ReservationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Public intake: booking widgets submit here, the pipeline does the rest.
	v1.POST("/reservations", r.ReservationController.CreateReservation)
	v1.GET("/reservations/:id", r.ReservationController.GetReservation)

	private := v1.Group("/private", mw.AuthMiddleware())
	private.GET("/properties/:id/reservations", r.ReservationController.ListReservations)
	private.POST("/reservations/:id/cancel", r.ReservationController.CancelReservation)
	private.POST("/reservations/:id/resubmit", r.ReservationController.ResubmitReservation)
}
