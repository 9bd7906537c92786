package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"stayops/core/config"
	"stayops/modules/job/dto"
	"stayops/modules/job/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeJobRepo is an in-memory work-item store. Create can be made to fail
// for selected types to simulate a partial write.
type fakeJobRepo struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]*entity.Job
	order     []uuid.UUID
	failTypes map[string]bool
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:      make(map[uuid.UUID]*entity.Job),
		failTypes: make(map[string]bool),
	}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *entity.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTypes[job.Type] {
		return fmt.Errorf("connection reset by peer")
	}
	copied := *job
	f.jobs[job.ID] = &copied
	f.order = append(f.order, job.ID)
	return nil
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]entity.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Job
	for _, id := range f.order {
		if f.jobs[id].ReservationID == reservationID {
			out = append(out, *f.jobs[id])
		}
	}
	return out, nil
}

func (f *fakeJobRepo) ListUnassigned(ctx context.Context, limit int) ([]entity.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Job
	for _, id := range f.order {
		job := f.jobs[id]
		if job.Status == entity.JobPending && job.AssignedTo == nil && len(out) < limit {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) Assign(ctx context.Context, id uuid.UUID, staffID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok || job.Status != entity.JobPending || job.AssignedTo != nil {
		return false, nil
	}
	job.AssignedTo = &staffID
	job.Status = entity.JobAssigned
	job.UnassignedCause = nil
	return true, nil
}

func (f *fakeJobRepo) MarkUnassigned(ctx context.Context, id uuid.UUID, cause entity.UnassignedCause) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok && job.Status == entity.JobPending {
		s := string(cause)
		job.UnassignedCause = &s
	}
	return nil
}

func (f *fakeJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.JobStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok {
		job.Status = status
	}
	return nil
}

func (f *fakeJobRepo) CancelByReservation(ctx context.Context, reservationID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, job := range f.jobs {
		if job.ReservationID == reservationID &&
			(job.Status == entity.JobPending || job.Status == entity.JobAssigned) {
			job.Status = entity.JobCancelled
		}
	}
	return nil
}

func (f *fakeJobRepo) CreateAudit(ctx context.Context, audit *dto.AssignmentAudit) error {
	return nil
}

func (f *fakeJobRepo) typeCounts(reservationID uuid.UUID) map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, job := range f.jobs {
		if job.ReservationID == reservationID {
			counts[job.Type]++
		}
	}
	return counts
}

func newDerivationService(repo *fakeJobRepo) *JobService {
	return NewJobService(repo, nil, config.DefaultJobsConfig())
}

func stayAnchors() (time.Time, time.Time) {
	checkIn := time.Date(2026, 9, 7, 15, 0, 0, 0, time.UTC)
	return checkIn, checkIn.Add(48 * time.Hour)
}

func TestDeriveCreatesConfiguredSet(t *testing.T) {
	t.Parallel()

	repo := newFakeJobRepo()
	svc := newDerivationService(repo)
	reservationID, propertyID := uuid.New(), uuid.New()
	checkIn, checkOut := stayAnchors()

	jobs, appErr := svc.DeriveForReservation(context.Background(), reservationID, propertyID, checkIn, checkOut)
	require.Nil(t, appErr)
	require.Len(t, jobs, 4)

	counts := repo.typeCounts(reservationID)
	require.Equal(t, map[string]int{
		"provisioning":      1,
		"inspection":        1,
		"cleaning":          1,
		"maintenance_check": 1,
	}, counts)

	byType := make(map[string]entity.Job, len(jobs))
	for _, job := range jobs {
		byType[job.Type] = job
	}
	require.True(t, byType["provisioning"].ScheduledAt.Equal(checkIn.Add(-24*time.Hour)),
		"pre-service items anchor before check-in")
	require.True(t, byType["cleaning"].ScheduledAt.Equal(checkOut.Add(2*time.Hour)),
		"post-service items anchor after check-out")
}

func TestDeriveIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newFakeJobRepo()
	svc := newDerivationService(repo)
	reservationID, propertyID := uuid.New(), uuid.New()
	checkIn, checkOut := stayAnchors()

	_, appErr := svc.DeriveForReservation(context.Background(), reservationID, propertyID, checkIn, checkOut)
	require.Nil(t, appErr)

	again, appErr := svc.DeriveForReservation(context.Background(), reservationID, propertyID, checkIn, checkOut)
	require.Nil(t, appErr)
	require.Len(t, again, 4, "the existing pending items come back")

	for jobType, n := range repo.typeCounts(reservationID) {
		require.Equal(t, 1, n, "type %s duplicated", jobType)
	}
}

func TestDeriveFillsMissingTypesAfterPartialFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeJobRepo()
	svc := newDerivationService(repo)
	reservationID, propertyID := uuid.New(), uuid.New()
	checkIn, checkOut := stayAnchors()

	repo.failTypes["cleaning"] = true
	_, appErr := svc.DeriveForReservation(context.Background(), reservationID, propertyID, checkIn, checkOut)
	require.NotNil(t, appErr, "a failed insert surfaces so the pipeline can retry")

	repo.failTypes["cleaning"] = false
	jobs, appErr := svc.DeriveForReservation(context.Background(), reservationID, propertyID, checkIn, checkOut)
	require.Nil(t, appErr)
	require.Len(t, jobs, 4)

	for jobType, n := range repo.typeCounts(reservationID) {
		require.Equal(t, 1, n, "type %s duplicated", jobType)
	}
}

func TestDeriveSkipsItemsPastPending(t *testing.T) {
	t.Parallel()

	repo := newFakeJobRepo()
	svc := newDerivationService(repo)
	reservationID, propertyID := uuid.New(), uuid.New()
	checkIn, checkOut := stayAnchors()

	first, appErr := svc.DeriveForReservation(context.Background(), reservationID, propertyID, checkIn, checkOut)
	require.Nil(t, appErr)

	staffID := uuid.New()
	committed, err := repo.Assign(context.Background(), first[0].ID, staffID)
	require.NoError(t, err)
	require.True(t, committed)

	again, appErr := svc.DeriveForReservation(context.Background(), reservationID, propertyID, checkIn, checkOut)
	require.Nil(t, appErr)
	require.Len(t, again, 3, "an already-assigned item is not offered for allocation again")
}

func TestUpdateStatusEnforcesLifecycle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from entity.JobStatus
		to   entity.JobStatus
		ok   bool
	}{
		{"assigned starts", entity.JobAssigned, entity.JobInProgress, true},
		{"in progress completes", entity.JobInProgress, entity.JobCompleted, true},
		{"pending cancels", entity.JobPending, entity.JobCancelled, true},
		{"assigned cancels", entity.JobAssigned, entity.JobCancelled, true},
		{"pending cannot self-assign", entity.JobPending, entity.JobAssigned, false},
		{"completed is terminal", entity.JobCompleted, entity.JobInProgress, false},
		{"cancelled is terminal", entity.JobCancelled, entity.JobPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeJobRepo()
			svc := newDerivationService(repo)

			job := &entity.Job{
				Type:            "cleaning",
				PropertyID:      uuid.New(),
				ReservationID:   uuid.New(),
				ScheduledAt:     time.Now().Add(24 * time.Hour),
				DurationMinutes: 120,
				Status:          tc.from,
			}
			job.ID = uuid.New()
			require.NoError(t, repo.Create(context.Background(), job))

			updated, appErr := svc.UpdateStatus(context.Background(), job.ID, tc.to)
			if !tc.ok {
				require.NotNil(t, appErr)
				stored, _ := repo.GetByID(context.Background(), job.ID)
				require.Equal(t, tc.from, stored.Status)
				return
			}
			require.Nil(t, appErr)
			require.Equal(t, tc.to, updated.Status)
			stored, _ := repo.GetByID(context.Background(), job.ID)
			require.Equal(t, tc.to, stored.Status)
		})
	}
}
