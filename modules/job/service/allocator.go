package service

import (
	"context"
	"sort"
	"time"

	"stayops/core/config"
	"stayops/core/errors"
	"stayops/core/logger"
	"stayops/modules/job/dto"
	"stayops/modules/job/entity"
	staffEntity "stayops/modules/staff/entity"

	"github.com/google/uuid"
)

// CandidateSource is the staff-directory surface the allocator reads from.
type CandidateSource interface {
	ListAvailable(ctx context.Context) ([]staffEntity.Staff, error)
	ActiveJobCount(ctx context.Context, staffID uuid.UUID) (int, error)
	CompletedCountByType(ctx context.Context, staffID uuid.UUID, jobType string) (int, error)
	HasOverlappingAssignment(ctx context.Context, staffID uuid.UUID, start, end time.Time) (bool, error)
}

// JobStore is the slice of the job repository the allocator writes through.
type JobStore interface {
	Assign(ctx context.Context, id uuid.UUID, staffID uuid.UUID) (bool, error)
	MarkUnassigned(ctx context.Context, id uuid.UUID, cause entity.UnassignedCause) error
	CreateAudit(ctx context.Context, audit *dto.AssignmentAudit) error
}

// AuditArchiver receives the decision record after it is persisted. Archival
// is best effort and must never fail an allocation.
type AuditArchiver interface {
	Archive(ctx context.Context, audit *dto.AssignmentAudit)
}

// Allocator ranks candidates for one job with a weighted multi-criteria score
// and commits the winner. It is deterministic for a fixed candidate pool.
type Allocator struct {
	candidates CandidateSource
	store      JobStore
	archiver   AuditArchiver
	cfg        config.AllocatorConfig
	now        func() time.Time
}

func NewAllocator(candidates CandidateSource, store JobStore, archiver AuditArchiver, cfg config.AllocatorConfig) *Allocator {
	return &Allocator{
		candidates: candidates,
		store:      store,
		archiver:   archiver,
		cfg:        cfg,
		now:        time.Now,
	}
}

// WithClock overrides the decision timestamp source. Test hook.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}

// Assign scores the eligible pool for job and commits the top-ranked
// candidate. Returns the winner, or nil with the job marked unassigned and
// its cause recorded. The full ranked list is persisted either way.
func (a *Allocator) Assign(ctx context.Context, job *entity.Job) (*staffEntity.Staff, *errors.AppError) {
	pool, err := a.candidates.ListAvailable(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "Failed to load candidate pool", nil)
	}

	eligible, cause, err := a.filter(ctx, job, pool)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "Failed to filter candidate pool", nil)
	}

	if len(eligible) == 0 {
		logger.Info("Allocator:Assign:NoCandidate", "job_id", job.ID, "type", job.Type, "cause", cause)
		if err := a.store.MarkUnassigned(ctx, job.ID, cause); err != nil {
			return nil, errors.NewAppError(errors.ErrDatabase, "Failed to record unassigned cause", nil)
		}
		a.recordAudit(ctx, job, nil, string(cause), nil)
		return nil, nil
	}

	rankings, err := a.rank(ctx, job, eligible)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "Failed to score candidate pool", nil)
	}

	winner := eligible[rankings[0].CandidateID]
	committed, err := a.store.Assign(ctx, job.ID, winner.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDatabase, "Failed to commit assignment", nil)
	}
	if !committed {
		// The job left pending under us (cancelled or assigned elsewhere).
		logger.Warn("Allocator:Assign:LostCommit", "job_id", job.ID)
		return nil, nil
	}

	logger.Info("Allocator:Assign:Committed",
		"job_id", job.ID,
		"type", job.Type,
		"staff_id", winner.ID,
		"score", rankings[0].Total,
	)
	a.recordAudit(ctx, job, &winner.ID, "", rankings)
	return winner, nil
}

// filter narrows the pool to candidates that hold a required capability, work
// the scheduled window, and have no overlapping active assignment (with the
// configured buffer on both sides). The returned cause explains an empty
// result.
func (a *Allocator) filter(ctx context.Context, job *entity.Job, pool []staffEntity.Staff) (map[uuid.UUID]*staffEntity.Staff, entity.UnassignedCause, error) {
	if len(pool) == 0 {
		return nil, entity.CauseNoCandidates, nil
	}

	start, end := job.Window()
	buffer := time.Duration(a.cfg.OverlapBufferHours) * time.Hour
	bufferedStart := start.Add(-buffer)
	bufferedEnd := end.Add(buffer)

	eligible := make(map[uuid.UUID]*staffEntity.Staff)
	anyCapable := false
	for i := range pool {
		candidate := &pool[i]
		if !candidate.HasAnyCapability(job.RequiredCapabilities) {
			continue
		}
		anyCapable = true
		if !candidate.WorksAt(job.ScheduledAt) {
			continue
		}
		conflicted, err := a.candidates.HasOverlappingAssignment(ctx, candidate.ID, bufferedStart, bufferedEnd)
		if err != nil {
			return nil, "", err
		}
		if conflicted {
			continue
		}
		eligible[candidate.ID] = candidate
	}

	if len(eligible) == 0 {
		if !anyCapable {
			return nil, entity.CauseNoCapabilityMatch, nil
		}
		return nil, entity.CauseTimeConflict, nil
	}
	return eligible, "", nil
}

// rank scores every eligible candidate and orders them by total descending,
// performance descending, then candidate ID for a stable tiebreak.
func (a *Allocator) rank(ctx context.Context, job *entity.Job, eligible map[uuid.UUID]*staffEntity.Staff) ([]dto.ScoreBreakdown, error) {
	rankings := make([]dto.ScoreBreakdown, 0, len(eligible))
	for id, candidate := range eligible {
		load, err := a.candidates.ActiveJobCount(ctx, id)
		if err != nil {
			return nil, err
		}
		history, err := a.candidates.CompletedCountByType(ctx, id, job.Type)
		if err != nil {
			return nil, err
		}
		rankings = append(rankings, a.score(job, candidate, load, history))
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Total != rankings[j].Total {
			return rankings[i].Total > rankings[j].Total
		}
		if rankings[i].Performance != rankings[j].Performance {
			return rankings[i].Performance > rankings[j].Performance
		}
		return rankings[i].CandidateID.String() < rankings[j].CandidateID.String()
	})
	return rankings, nil
}

func (a *Allocator) score(job *entity.Job, candidate *staffEntity.Staff, load, history int) dto.ScoreBreakdown {
	matched := candidate.MatchedCapabilities(job.RequiredCapabilities)

	skill := 1.0
	if len(job.RequiredCapabilities) > 0 {
		skill = float64(len(matched)) / float64(len(job.RequiredCapabilities))
	}

	performance := 0.5
	if candidate.CompletedJobs > 0 {
		performance = 0.4*clamp01(candidate.CompletionRate) +
			0.3*clamp01(candidate.AverageRating/5) +
			0.3*clamp01(candidate.OnTimeRate)
	}

	capacity := a.cfg.WorkloadCapacity
	if capacity <= 0 {
		capacity = 10
	}
	workload := 1 - float64(load)/float64(capacity)
	if workload < 0 {
		workload = 0
	}

	experience := float64(history) / 10
	if experience > 1 {
		experience = 1
	}

	total := a.cfg.SkillWeight*skill +
		a.cfg.PerformanceWeight*performance +
		a.cfg.WorkloadWeight*workload +
		a.cfg.ExperienceWeight*experience

	return dto.ScoreBreakdown{
		CandidateID:         candidate.ID,
		CandidateName:       candidate.Name,
		Total:               total,
		SkillMatch:          skill,
		Performance:         performance,
		Workload:            workload,
		Experience:          experience,
		MatchedCapabilities: matched,
		CurrentLoad:         load,
		HistoricalCount:     history,
	}
}

func (a *Allocator) recordAudit(ctx context.Context, job *entity.Job, assignedTo *uuid.UUID, cause string, rankings []dto.ScoreBreakdown) {
	audit := &dto.AssignmentAudit{
		JobID:      job.ID,
		JobType:    job.Type,
		AssignedTo: assignedTo,
		Cause:      cause,
		Rankings:   rankings,
		DecidedAt:  a.now(),
	}
	if err := a.store.CreateAudit(ctx, audit); err != nil {
		logger.Warn("Allocator:recordAudit:persist_failed", "job_id", job.ID, "error", err.Error())
	}
	if a.archiver != nil {
		a.archiver.Archive(ctx, audit)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
