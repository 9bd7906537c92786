package entity

import (
	"time"

	coreEntity "stayops/core/entity"

	"github.com/lib/pq"
)

type StaffAvailability string

const (
	StaffAvailable   StaffAvailability = "available"
	StaffBusy        StaffAvailability = "busy"
	StaffUnavailable StaffAvailability = "unavailable"
)

// Staff is a schedulable worker eligible for job assignment. The record is
// owned by an external staff-management system; the allocator only reads it.
type Staff struct {
	Name           string            `db:"name" json:"name"`
	Email          string            `db:"email" json:"email"`
	Capabilities   pq.StringArray    `db:"capabilities" json:"capabilities"`
	Availability   StaffAvailability `db:"availability" json:"availability"`
	WorkStartHour  int               `db:"work_start_hour" json:"work_start_hour"`
	WorkEndHour    int               `db:"work_end_hour" json:"work_end_hour"`
	WorkDays       pq.Int64Array     `db:"work_days" json:"work_days"`
	CompletionRate float64           `db:"completion_rate" json:"completion_rate"`
	AverageRating  float64           `db:"average_rating" json:"average_rating"`
	OnTimeRate     float64           `db:"on_time_rate" json:"on_time_rate"`
	CompletedJobs  int               `db:"completed_jobs" json:"completed_jobs"`
	coreEntity.BaseEntity
}

// WorksAt reports whether t falls inside the working-hours window on an
// applicable weekday. The window is half-open on the end hour.
func (s *Staff) WorksAt(t time.Time) bool {
	weekday := int64(t.Weekday())
	dayOK := false
	for _, d := range s.WorkDays {
		if d == weekday {
			dayOK = true
			break
		}
	}
	if !dayOK {
		return false
	}
	hour := t.Hour()
	return hour >= s.WorkStartHour && hour < s.WorkEndHour
}

// HasAnyCapability reports capability-set overlap with required.
// An empty requirement set matches everyone.
func (s *Staff) HasAnyCapability(required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, have := range s.Capabilities {
			if have == want {
				return true
			}
		}
	}
	return false
}

// MatchedCapabilities returns the intersection with required, in required's order.
func (s *Staff) MatchedCapabilities(required []string) []string {
	var matched []string
	for _, want := range required {
		for _, have := range s.Capabilities {
			if have == want {
				matched = append(matched, want)
				break
			}
		}
	}
	return matched
}
