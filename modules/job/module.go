package job

import (
	"context"

	"stayops/core/config"
	"stayops/core/database"
	"stayops/core/logger"
	"stayops/core/middleware"
	"stayops/modules/job/controller"
	"stayops/modules/job/repository"
	"stayops/modules/job/router"
	"stayops/modules/job/service"
	staffRepository "stayops/modules/staff/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the job module and registers routes.
// Returns the service so the pipeline can derive and assign work items.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, staffRepo staffRepository.StaffRepositoryInterface, cfg *config.Config) service.JobServiceInterface {
	repo := repository.NewJobRepository(db)

	var archiver service.AuditArchiver
	if cfg.Audit.Enabled {
		s3Archiver, err := service.NewS3AuditArchiver(context.Background(), cfg.Audit)
		if err != nil {
			logger.Warn("job:Init:audit_archiver_disabled", "error", err.Error())
		} else {
			archiver = s3Archiver
		}
	}

	allocator := service.NewAllocator(staffRepo, repo, archiver, cfg.Allocator)
	svc := service.NewJobService(repo, allocator, cfg.Jobs)
	ctrl := controller.NewJobController(svc)
	router.NewJobRouter(ctrl).Setup(e, mw)
	return svc
}
