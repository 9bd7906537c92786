package repository

import (
	"context"
	"database/sql"

	"stayops/core/database"
	"stayops/core/logger"
	"stayops/modules/notification/entity"

	"github.com/google/uuid"
)

// NotificationRepositoryInterface defines the repository contract
type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	ListRecent(ctx context.Context, limit int) ([]entity.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository struct {
	DB database.Database
}

func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

const notificationColumns = `id, recipient, channel, subject, data, status, sent_at, created_at, updated_at`

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient, channel, subject, data, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.DB.GetContext(ctx, n, query, n.ID, n.Recipient, n.Channel, n.Subject, n.Data, n.Status)
	if err != nil {
		logger.Error("NotificationRepository:Create", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var n entity.Notification
	err := r.DB.GetContext(ctx, &n, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("NotificationRepository:GetByID", err)
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListRecent(ctx context.Context, limit int) ([]entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications ORDER BY created_at DESC LIMIT $1`

	var notifications []entity.Notification
	err := r.DB.SelectContext(ctx, &notifications, query, limit)
	if err != nil {
		logger.Error("NotificationRepository:ListRecent", err)
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET status = 'sent', sent_at = NOW(), updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("NotificationRepository:MarkSent", err)
	}
	return err
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET status = 'failed', updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("NotificationRepository:MarkFailed", err)
	}
	return err
}
