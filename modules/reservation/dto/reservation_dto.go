package dto

import (
	"time"

	scheduleEntity "stayops/modules/schedule/entity"
)

// CreateReservationRequest is the intake payload. Unknown fields are captured
// by the intake controller into the extension map rather than dropped.
type CreateReservationRequest struct {
	PropertyID  string         `json:"property_id"`
	GuestName   string         `json:"guest_name"`
	GuestEmail  string         `json:"guest_email"`
	CheckIn     time.Time      `json:"check_in"`
	CheckOut    time.Time      `json:"check_out"`
	Guests      int            `json:"guests"`
	TotalAmount float64        `json:"total_amount"`
	Extensions  map[string]any `json:"extensions"`
}

// ValidationResult is the outcome of running the ordered rule set over one request.
type ValidationResult struct {
	Valid     bool                             `json:"valid"`
	Reason    string                           `json:"reason,omitempty"`
	Details   map[string]any                   `json:"details,omitempty"`
	Conflicts []scheduleEntity.ResourceBlock   `json:"conflicts,omitempty"`
}
