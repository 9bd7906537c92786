package entity

import (
	coreEntity "stayops/core/entity"
)

type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"
)

// Property is a bookable unit with finite availability.
type Property struct {
	Name         string         `db:"name" json:"name"`
	Slug         string         `db:"slug" json:"slug"`
	Address      *string        `db:"address" json:"address,omitempty"`
	MaxOccupancy int            `db:"max_occupancy" json:"max_occupancy"`
	MinStayDays  int            `db:"min_stay_days" json:"min_stay_days"`
	NightlyRate  float64        `db:"nightly_rate" json:"nightly_rate"`
	Status       PropertyStatus `db:"status" json:"status"`
	coreEntity.BaseEntity
}
