package staff

import (
	"stayops/core/database"
	"stayops/core/middleware"
	"stayops/modules/staff/controller"
	"stayops/modules/staff/repository"
	"stayops/modules/staff/router"

	"github.com/labstack/echo/v4"
)

// Init initializes the staff module and registers routes.
// Returns the repository for the allocator's candidate queries.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *repository.StaffRepository {
	repo := repository.NewStaffRepository(db)
	ctrl := controller.NewStaffController(repo)
	router.NewStaffRouter(ctrl).Setup(e, mw)
	return repo
}
