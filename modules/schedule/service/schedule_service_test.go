package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"stayops/modules/schedule/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeBlockRepo records which query variant the service reaches for and the
// range it asks about.
type fakeBlockRepo struct {
	mu         sync.Mutex
	blocks     []entity.ResourceBlock
	fullScans  int
	rangeStart time.Time
	rangeEnd   time.Time
}

func (f *fakeBlockRepo) Create(ctx context.Context, block *entity.ResourceBlock) (*entity.ResourceBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *block
	created.ID = uuid.New()
	f.blocks = append(f.blocks, created)
	return &created, nil
}

func (f *fakeBlockRepo) ListActiveByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.ResourceBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fullScans++
	return f.active(propertyID), nil
}

func (f *fakeBlockRepo) ListActiveByPropertyInRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]entity.ResourceBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rangeStart, f.rangeEnd = start, end

	var out []entity.ResourceBlock
	for _, b := range f.active(propertyID) {
		if b.StartAt.Before(end) && b.EndAt.After(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBlockRepo) active(propertyID uuid.UUID) []entity.ResourceBlock {
	var out []entity.ResourceBlock
	for _, b := range f.blocks {
		if b.PropertyID == propertyID && b.Status == entity.BlockStatusActive {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeBlockRepo) CancelBySource(ctx context.Context, sourceID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.blocks {
		if f.blocks[i].SourceID != nil && *f.blocks[i].SourceID == sourceID {
			f.blocks[i].Status = entity.BlockStatusCancelled
		}
	}
	return nil
}

func (f *fakeBlockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BlockStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.blocks {
		if f.blocks[i].ID == id {
			f.blocks[i].Status = status
		}
	}
	return nil
}

func TestAvailabilityQueriesScanHorizonOnly(t *testing.T) {
	t.Parallel()

	repo := &fakeBlockRepo{}
	svc := NewScheduleService(repo)
	propertyID := uuid.New()

	start := day(10)
	end := day(12)
	_, err := repo.Create(context.Background(), &entity.ResourceBlock{
		PropertyID: propertyID,
		StartAt:    start,
		EndAt:      end,
		Kind:       entity.BlockKindBooking,
		Status:     entity.BlockStatusActive,
		Priority:   entity.BlockPriorityHigh,
	})
	require.NoError(t, err)

	resp, appErr := svc.Availability(context.Background(), propertyID, start, end)
	require.Nil(t, appErr)
	require.False(t, resp.Available)
	require.Len(t, resp.Conflicts, 1)
	require.NotEmpty(t, resp.Alternatives, "a blocked window comes back with alternatives")

	require.True(t, repo.rangeStart.Equal(start.Add(-alternativeScanDays*24*time.Hour)),
		"query lower bound matches the alternatives scan horizon")
	require.True(t, repo.rangeEnd.Equal(end.Add(alternativeScanDays*24*time.Hour)))
	require.Zero(t, repo.fullScans, "the query endpoint never loads the full block history")
}

func TestAvailabilityOpenWindow(t *testing.T) {
	t.Parallel()

	repo := &fakeBlockRepo{}
	svc := NewScheduleService(repo)

	resp, appErr := svc.Availability(context.Background(), uuid.New(), day(10), day(12))
	require.Nil(t, appErr)
	require.True(t, resp.Available)
	require.Empty(t, resp.Conflicts)
	require.Empty(t, resp.Alternatives)
}
