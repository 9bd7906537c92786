package service

import (
	"context"

	"stayops/core/logger"
	"stayops/modules/notification/entity"
	"stayops/modules/pipeline/events"
)

const opsRecipient = "operations"

// PipelineSubscriber turns pipeline events into queued notifications.
// Requester-facing events go out on the email channel; operational ones land
// on the ops channel for the back-office feed.
type PipelineSubscriber struct {
	service NotificationServiceInterface
}

func NewPipelineSubscriber(service NotificationServiceInterface) *PipelineSubscriber {
	return &PipelineSubscriber{service: service}
}

func (s *PipelineSubscriber) Name() string {
	return "notifications"
}

func (s *PipelineSubscriber) Handle(ctx context.Context, e events.Event) {
	var (
		channel   entity.NotificationChannel
		recipient string
		subject   string
	)

	switch e.Type {
	case events.ReservationConfirmed:
		channel, recipient, subject = entity.ChannelEmail, guestRecipient(e), "Reservation confirmed"
	case events.ReservationRejected:
		channel, recipient, subject = entity.ChannelEmail, guestRecipient(e), "Reservation could not be accepted"
	case events.ReservationError:
		channel, recipient, subject = entity.ChannelOps, opsRecipient, "Reservation processing failed"
	case events.ReservationManualReview:
		channel, recipient, subject = entity.ChannelOps, opsRecipient, "Reservation needs manual review"
	case events.JobAssigned:
		channel, recipient, subject = entity.ChannelOps, opsRecipient, "Work item assigned"
	case events.JobUnassigned:
		channel, recipient, subject = entity.ChannelOps, opsRecipient, "Work item could not be assigned"
	default:
		// Block-level events feed the calendar collaborator, not people.
		return
	}

	data := map[string]any{
		"event":          string(e.Type),
		"reservation_id": e.ReservationID,
	}
	for k, v := range e.Payload {
		data[k] = v
	}

	if appErr := s.service.Notify(ctx, recipient, channel, subject, data); appErr != nil {
		logger.Warn("PipelineSubscriber:Handle:notify_failed",
			"event", e.Type,
			"reservation_id", e.ReservationID,
			"error", appErr.Message,
		)
	}
}

func guestRecipient(e events.Event) string {
	if email, ok := e.Payload["guest_email"].(string); ok && email != "" {
		return email
	}
	return opsRecipient
}
