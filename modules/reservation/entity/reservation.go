package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	coreEntity "stayops/core/entity"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending      ReservationStatus = "pending"
	ReservationStatusConfirmed    ReservationStatus = "confirmed"
	ReservationStatusRejected     ReservationStatus = "rejected"
	ReservationStatusError        ReservationStatus = "error"
	ReservationStatusManualReview ReservationStatus = "pending_manual_review"
	ReservationStatusCancelled    ReservationStatus = "cancelled"
)

// Terminal reports whether the status can no longer change through the pipeline.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationStatusConfirmed, ReservationStatusRejected, ReservationStatusError, ReservationStatusCancelled:
		return true
	}
	return false
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(JSONB{})
	}
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

// Reservation is a guest's request for a stay. The typed fields are the known
// schema; anything else the intake channel sends lands in Extensions.
type Reservation struct {
	PropertyID  uuid.UUID         `db:"property_id" json:"property_id"`
	GuestName   string            `db:"guest_name" json:"guest_name"`
	GuestEmail  string            `db:"guest_email" json:"guest_email"`
	CheckIn     time.Time         `db:"check_in" json:"check_in"`
	CheckOut    time.Time         `db:"check_out" json:"check_out"`
	Guests      int               `db:"guests" json:"guests"`
	TotalAmount float64           `db:"total_amount" json:"total_amount"`
	Status      ReservationStatus `db:"status" json:"status"`
	StatusReason *string          `db:"status_reason" json:"status_reason,omitempty"`
	JobsCreated bool              `db:"jobs_created" json:"jobs_created"`
	Extensions  JSONB             `db:"extensions" json:"extensions,omitempty"`
	coreEntity.BaseEntity
}

// Nights is the stay length in whole days, rounded up.
func (r *Reservation) Nights() int {
	hours := r.CheckOut.Sub(r.CheckIn).Hours()
	nights := int(hours / 24)
	if hours > float64(nights)*24 {
		nights++
	}
	return nights
}
