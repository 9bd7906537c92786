package service

import (
	"testing"
	"time"

	"stayops/modules/schedule/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func activeBlock(kind entity.BlockKind, start, end time.Time) entity.ResourceBlock {
	b := entity.ResourceBlock{
		PropertyID: uuid.New(),
		StartAt:    start,
		EndAt:      end,
		Kind:       kind,
		Status:     entity.BlockStatusActive,
		Priority:   entity.BlockPriorityMedium,
	}
	b.ID = uuid.New()
	return b
}

func TestFindConflictsHalfOpen(t *testing.T) {
	t.Parallel()
	engine := NewConflictEngine()

	// A=[10,20) existing, B=[20,30) requested: touching endpoints, no conflict.
	blocks := []entity.ResourceBlock{activeBlock(entity.BlockKindBooking, day(10), day(20))}
	require.Empty(t, engine.FindConflicts(blocks, day(20), day(30)))

	// B=[15,25): overlaps.
	conflicts := engine.FindConflicts(blocks, day(15), day(25))
	require.Len(t, conflicts, 1)

	// Symmetry: requested window fully inside the block and vice versa.
	require.Len(t, engine.FindConflicts(blocks, day(12), day(14)), 1)
	require.Len(t, engine.FindConflicts(blocks, day(5), day(25)), 1)

	// Touching on the other side.
	require.Empty(t, engine.FindConflicts(blocks, day(5), day(10)))
}

func TestFindConflictsSkipsInactiveAndExcludedKinds(t *testing.T) {
	t.Parallel()
	engine := NewConflictEngine()

	cancelled := activeBlock(entity.BlockKindBooking, day(10), day(20))
	cancelled.Status = entity.BlockStatusCancelled
	buffer := activeBlock(entity.BlockKindBuffer, day(10), day(20))
	blocks := []entity.ResourceBlock{cancelled, buffer}

	require.Empty(t, engine.FindConflicts(blocks, day(12), day(15), entity.BlockKindBuffer))
	require.Len(t, engine.FindConflicts(blocks, day(12), day(15)), 1)
}

func TestCheckAvailability(t *testing.T) {
	t.Parallel()
	engine := NewConflictEngine()

	blocks := []entity.ResourceBlock{
		activeBlock(entity.BlockKindBooking, day(10), day(13)),
		activeBlock(entity.BlockKindBuffer, day(13), day(14)),
	}

	// Buffer overlap alone does not make a window unavailable.
	result := engine.CheckAvailability(blocks, day(13), day(15))
	require.True(t, result.Available)
	require.Empty(t, result.Conflicts)

	result = engine.CheckAvailability(blocks, day(12), day(15))
	require.False(t, result.Available)
	require.Len(t, result.Conflicts, 1)
}

func TestSuggestAlternativesRanking(t *testing.T) {
	t.Parallel()
	engine := NewConflictEngine()

	// Requested [10,12) conflicts; every nearby shifted window is free.
	blocks := []entity.ResourceBlock{activeBlock(entity.BlockKindBooking, day(10), day(12))}

	alternatives := engine.SuggestAlternatives(blocks, day(10), day(12))
	require.Len(t, alternatives, 3)

	for _, alt := range alternatives {
		require.NotZero(t, alt.OffsetDays, "offset 0 must be excluded")
		require.Equal(t, alt.StartAt.AddDate(0, 0, -alt.OffsetDays), day(10), "duration preserved via offset")
		require.Equal(t, 48*time.Hour, alt.EndAt.Sub(alt.StartAt))
	}

	// Sorted descending by confidence; nearest offsets first.
	require.GreaterOrEqual(t, alternatives[0].Confidence, alternatives[1].Confidence)
	require.GreaterOrEqual(t, alternatives[1].Confidence, alternatives[2].Confidence)
	// ±1 day still overlaps a 2-day stay, so the nearest free offset is 2 days.
	require.InDelta(t, 1-2.0/30, alternatives[0].Confidence, 1e-9)
}

func TestSuggestAlternativesSkipsConflictingWindows(t *testing.T) {
	t.Parallel()
	engine := NewConflictEngine()

	// Everything from day 8 to day 16 is blocked, so ±1..3 day shifts of
	// [10,12) all conflict and the first free candidates sit further out.
	blocks := []entity.ResourceBlock{activeBlock(entity.BlockKindMaintenance, day(8), day(16))}

	alternatives := engine.SuggestAlternatives(blocks, day(10), day(12))
	require.Len(t, alternatives, 3)
	for _, alt := range alternatives {
		require.False(t, blocks[0].Overlaps(alt.StartAt, alt.EndAt))
	}
}

func TestSuggestAlternativesConfidenceFloor(t *testing.T) {
	t.Parallel()
	engine := NewConflictEngine()

	// Block out all but the farthest offsets so confidence bottoms out near
	// the 0.1 floor rather than going negative.
	blocks := []entity.ResourceBlock{activeBlock(entity.BlockKindMaintenance, day(-27), day(38))}

	alternatives := engine.SuggestAlternatives(blocks, day(10), day(12))
	for _, alt := range alternatives {
		require.GreaterOrEqual(t, alt.Confidence, 0.1)
	}
}
