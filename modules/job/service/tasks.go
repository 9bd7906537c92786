package service

import (
	"context"

	"stayops/core/logger"

	"github.com/hibiken/asynq"
)

const TypeRetryUnassigned = "jobs:retry_unassigned"

func NewRetryUnassignedTask() *asynq.Task {
	return asynq.NewTask(TypeRetryUnassigned, nil)
}

// RetryUnassignedHandler adapts the sweep to an asynq task handler so it can
// run on the periodic scheduler.
func RetryUnassignedHandler(svc JobServiceInterface) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		assigned, appErr := svc.RetryUnassigned(ctx)
		if appErr != nil {
			logger.Error("RetryUnassignedHandler", "error", appErr.Message)
			return appErr
		}
		logger.Debug("RetryUnassignedHandler:done", "assigned", assigned)
		return nil
	}
}
