package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	ReservationConfirmed    EventType = "reservation.confirmed"
	ReservationRejected     EventType = "reservation.rejected"
	ReservationError        EventType = "reservation.error"
	ReservationManualReview EventType = "reservation.manual_review"
	BlockCreated            EventType = "block.created"
	BlockCancelled          EventType = "block.cancelled"
	JobCreated              EventType = "job.created"
	JobAssigned             EventType = "job.assigned"
	JobUnassigned           EventType = "job.unassigned"
)

// Event is a domain fact emitted by the pipeline for collaborators: calendar
// presentation, notification delivery, reporting.
type Event struct {
	ID            string         `json:"id"`
	Type          EventType      `json:"type"`
	ReservationID uuid.UUID      `json:"reservation_id"`
	PropertyID    uuid.UUID      `json:"property_id,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// Subscriber consumes pipeline events. Handlers must tolerate duplicate
// delivery; a panic in one subscriber never reaches the others.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, e Event)
}
