package service

import (
	"context"
	"encoding/json"

	"stayops/core/errors"
	"stayops/core/logger"
	"stayops/modules/notification/entity"
	"stayops/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeNotificationDeliver = "notification:deliver"

type deliverPayload struct {
	NotificationID uuid.UUID `json:"notification_id"`
}

// TaskEnqueuer is the asynq client surface the service needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NotificationServiceInterface defines the service contract
type NotificationServiceInterface interface {
	Notify(ctx context.Context, recipient string, channel entity.NotificationChannel, subject string, data map[string]any) *errors.AppError
	ListRecent(ctx context.Context, limit int) ([]entity.Notification, *errors.AppError)
}

type NotificationService struct {
	Repo   repository.NotificationRepositoryInterface
	Client TaskEnqueuer
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, client TaskEnqueuer) *NotificationService {
	return &NotificationService{Repo: repo, Client: client}
}

// Notify persists the message and hands delivery to the background worker.
// A persisted-but-unenqueued notification stays pending and is visible to
// operators; delivery is at-least-once.
func (s *NotificationService) Notify(ctx context.Context, recipient string, channel entity.NotificationChannel, subject string, data map[string]any) *errors.AppError {
	n := &entity.Notification{
		Recipient: recipient,
		Channel:   channel,
		Subject:   subject,
		Data:      entity.JSONB(data),
		Status:    entity.NotificationPending,
	}
	n.ID = uuid.New()

	if err := s.Repo.Create(ctx, n); err != nil {
		return errors.NewAppError(errors.ErrDatabase, "failed to create notification", nil)
	}

	payload, err := json.Marshal(deliverPayload{NotificationID: n.ID})
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to encode delivery payload", nil)
	}
	if s.Client != nil {
		if _, err := s.Client.EnqueueContext(ctx, asynq.NewTask(TypeNotificationDeliver, payload), asynq.MaxRetry(5)); err != nil {
			logger.Warn("NotificationService:Notify:enqueue_failed", "notification_id", n.ID, "error", err.Error())
		}
	}

	logger.Info("NotificationService:Notify", "notification_id", n.ID, "channel", channel, "subject", subject)
	return nil
}

func (s *NotificationService) ListRecent(ctx context.Context, limit int) ([]entity.Notification, *errors.AppError) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	notifications, err := s.Repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "failed to list notifications", nil)
	}
	return notifications, nil
}

// DeliverHandler is the asynq worker that performs channel delivery. The
// transport itself is a collaborator concern; the handler records the state
// transition and logs the hand-off.
func DeliverHandler(repo repository.NotificationRepositoryInterface) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload deliverPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}

		n, err := repo.GetByID(ctx, payload.NotificationID)
		if err != nil {
			return err
		}
		if n == nil || n.Status != entity.NotificationPending {
			return nil
		}

		logger.Info("DeliverHandler:dispatch",
			"notification_id", n.ID,
			"channel", n.Channel,
			"recipient", n.Recipient,
		)
		return repo.MarkSent(ctx, n.ID)
	}
}
