package pipeline

import (
	"stayops/core/config"
	jobService "stayops/modules/job/service"
	"stayops/modules/pipeline/service"
	resRepository "stayops/modules/reservation/repository"
	resService "stayops/modules/reservation/service"
	scheduleService "stayops/modules/schedule/service"
)

// Init wires the change feed, queue, scheduler and coordinator. Dependencies
// flow one direction: feed → coordinator → queue → scheduler → (validator,
// blocks, jobs); events flow back out through the coordinator's subscribers.
func Init(
	resRepo resRepository.ReservationRepositoryInterface,
	properties resService.PropertyReader,
	schedule scheduleService.ScheduleServiceInterface,
	jobs jobService.JobServiceInterface,
	cfg *config.Config,
) *service.Coordinator {
	validator := resService.NewValidator(properties, schedule, cfg.Pipeline.MaxAdvanceDays)
	scheduler := service.NewScheduler(resRepo, validator, schedule, jobs, nil, cfg.Pipeline)

	queue := service.NewQueue(cfg.Pipeline, scheduler.Process, scheduler.MarkError)
	feed := service.NewPostgresFeed(resRepo, 50)
	coordinator := service.NewCoordinator(feed, queue, cfg.Pipeline)
	scheduler.SetPublisher(coordinator)

	return coordinator
}
