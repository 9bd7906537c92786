package dto

import (
	"time"

	"github.com/google/uuid"
)

// ScoreBreakdown is one candidate's scored entry in an allocation decision.
// It is an audit artifact, not a source of truth.
type ScoreBreakdown struct {
	CandidateID         uuid.UUID `json:"candidate_id"`
	CandidateName       string    `json:"candidate_name"`
	Total               float64   `json:"total"`
	SkillMatch          float64   `json:"skill_match"`
	Performance         float64   `json:"performance"`
	Workload            float64   `json:"workload"`
	Experience          float64   `json:"experience"`
	MatchedCapabilities []string  `json:"matched_capabilities"`
	CurrentLoad         int       `json:"current_load"`
	HistoricalCount     int       `json:"historical_count"`
}

// AssignmentAudit is the full ranked record of one allocation pass, retained
// for explainability. AssignedTo is nil when the pool came up empty.
type AssignmentAudit struct {
	JobID      uuid.UUID        `json:"job_id"`
	JobType    string           `json:"job_type"`
	AssignedTo *uuid.UUID       `json:"assigned_to,omitempty"`
	Cause      string           `json:"cause,omitempty"`
	Rankings   []ScoreBreakdown `json:"rankings"`
	DecidedAt  time.Time        `json:"decided_at"`
}

type RetryAssignmentResponse struct {
	JobID      uuid.UUID  `json:"job_id"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	Cause      string     `json:"cause,omitempty"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status"`
}
