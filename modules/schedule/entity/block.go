package entity

import (
	"time"

	coreEntity "stayops/core/entity"

	"github.com/google/uuid"
)

type BlockKind string

const (
	BlockKindBooking     BlockKind = "booking"
	BlockKindMaintenance BlockKind = "maintenance"
	BlockKindOwnerUse    BlockKind = "owner_use"
	BlockKindManual      BlockKind = "manual"
	BlockKindBuffer      BlockKind = "buffer"
)

type BlockStatus string

const (
	BlockStatusActive    BlockStatus = "active"
	BlockStatusCancelled BlockStatus = "cancelled"
	BlockStatusCompleted BlockStatus = "completed"
)

type BlockPriority string

const (
	BlockPriorityLow      BlockPriority = "low"
	BlockPriorityMedium   BlockPriority = "medium"
	BlockPriorityHigh     BlockPriority = "high"
	BlockPriorityCritical BlockPriority = "critical"
)

// severityRank orders priorities for the conflict resolver.
var severityRank = map[BlockPriority]int{
	BlockPriorityLow:      1,
	BlockPriorityMedium:   2,
	BlockPriorityHigh:     3,
	BlockPriorityCritical: 4,
}

func (p BlockPriority) Rank() int {
	return severityRank[p]
}

// ResourceBlock is a committed time-interval allocation against a property.
// Intervals are half-open [StartAt, EndAt): touching endpoints do not conflict.
// Blocks are never deleted, only status-transitioned.
type ResourceBlock struct {
	PropertyID uuid.UUID     `db:"property_id" json:"property_id"`
	StartAt    time.Time     `db:"start_at" json:"start_at"`
	EndAt      time.Time     `db:"end_at" json:"end_at"`
	Kind       BlockKind     `db:"kind" json:"kind"`
	Status     BlockStatus   `db:"status" json:"status"`
	SourceID   *uuid.UUID    `db:"source_id" json:"source_id,omitempty"`
	SourceType string        `db:"source_type" json:"source_type"`
	EventType  *string       `db:"event_type" json:"event_type,omitempty"`
	Priority   BlockPriority `db:"priority" json:"priority"`
	coreEntity.BaseEntity
}

// Overlaps reports half-open interval overlap with [start, end).
func (b *ResourceBlock) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// IsBookingConflict reports whether this block represents a direct
// reservation overlap, the hard kind the resolver can never auto-resolve.
func (b *ResourceBlock) IsBookingConflict() bool {
	return b.Kind == BlockKindBooking
}
