package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	coreEntity "stayops/core/entity"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelOps   NotificationChannel = "ops"
)

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

// Notification is an outbound message queued for delivery. Channel transport
// is handled by the background worker; the record tracks delivery state.
type Notification struct {
	Recipient string              `db:"recipient" json:"recipient"`
	Channel   NotificationChannel `db:"channel" json:"channel"`
	Subject   string              `db:"subject" json:"subject"`
	Data      JSONB               `db:"data" json:"data,omitempty"`
	Status    NotificationStatus  `db:"status" json:"status"`
	SentAt    *time.Time          `db:"sent_at" json:"sent_at,omitempty"`
	coreEntity.BaseEntity
}
