package dto

import (
	"time"

	"stayops/modules/schedule/entity"
)

// AvailabilityResult is the outcome of a conflict check over one window.
type AvailabilityResult struct {
	Available bool                   `json:"available"`
	Conflicts []entity.ResourceBlock `json:"conflicts,omitempty"`
}

// AlternativeWindow is a candidate replacement window near the requested one.
type AlternativeWindow struct {
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	OffsetDays int       `json:"offset_days"`
	Confidence float64   `json:"confidence"`
}

// AvailabilityResponse is returned by the availability query endpoint.
type AvailabilityResponse struct {
	Available    bool                   `json:"available"`
	Conflicts    []entity.ResourceBlock `json:"conflicts,omitempty"`
	Alternatives []AlternativeWindow    `json:"alternatives,omitempty"`
}

// CreateBlockRequest creates a manual or maintenance block from the operator API.
type CreateBlockRequest struct {
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Kind      string    `json:"kind"`
	EventType string    `json:"event_type"`
	Priority  string    `json:"priority"`
}
