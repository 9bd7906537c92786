package entity

import (
	"time"

	coreEntity "stayops/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobAssigned   JobStatus = "assigned"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityMedium JobPriority = "medium"
	JobPriorityHigh   JobPriority = "high"
)

// UnassignedCause records why the allocator could not place a pending job.
// The distinction drives operator triage: a capability gap needs hiring or
// config changes, a time conflict resolves itself as schedules free up.
type UnassignedCause string

const (
	CauseNoCandidates      UnassignedCause = "no_available_candidates"
	CauseNoCapabilityMatch UnassignedCause = "no_capability_match"
	CauseTimeConflict      UnassignedCause = "all_candidates_time_conflicted"
)

// Job is a unit of operational work derived from a confirmed reservation.
type Job struct {
	Type                 string         `db:"type" json:"type"`
	PropertyID           uuid.UUID      `db:"property_id" json:"property_id"`
	ReservationID        uuid.UUID      `db:"reservation_id" json:"reservation_id"`
	ScheduledAt          time.Time      `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes      int            `db:"duration_minutes" json:"duration_minutes"`
	Priority             JobPriority    `db:"priority" json:"priority"`
	RequiredCapabilities pq.StringArray `db:"required_capabilities" json:"required_capabilities"`
	AssignedTo           *uuid.UUID     `db:"assigned_to" json:"assigned_to,omitempty"`
	Status               JobStatus      `db:"status" json:"status"`
	UnassignedCause      *string        `db:"unassigned_cause" json:"unassigned_cause,omitempty"`
	coreEntity.BaseEntity
}

// Window returns the job's scheduled time range [start, end).
func (j *Job) Window() (time.Time, time.Time) {
	return j.ScheduledAt, j.ScheduledAt.Add(time.Duration(j.DurationMinutes) * time.Minute)
}
