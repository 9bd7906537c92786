package service

import (
	"testing"

	"stayops/modules/schedule/entity"

	"github.com/stretchr/testify/require"
)

func eventBlock(eventType string, priority entity.BlockPriority) entity.ResourceBlock {
	b := activeBlock(entity.BlockKindManual, day(10), day(12))
	b.EventType = &eventType
	b.Priority = priority
	return b
}

func TestResolveNoConflicts(t *testing.T) {
	t.Parallel()
	resolver := NewConflictResolver()

	res := resolver.Resolve(day(10), day(12), nil)
	require.True(t, res.CanAutoResolve)
	require.Equal(t, SeverityLow, res.Severity)
	require.Len(t, res.SuggestedActions, 1)
	require.Equal(t, ActionProceed, res.SuggestedActions[0].Type)
}

func TestResolveBookingOverlapNeverAutoResolves(t *testing.T) {
	t.Parallel()
	resolver := NewConflictResolver()

	booking := activeBlock(entity.BlockKindBooking, day(10), day(12))
	booking.Priority = entity.BlockPriorityLow // forced up to high regardless

	res := resolver.Resolve(day(10), day(12), []entity.ResourceBlock{booking})
	require.False(t, res.CanAutoResolve)
	require.Equal(t, SeverityHigh, res.Severity)
	require.Equal(t, ActionEscalate, res.SuggestedActions[0].Type)
}

func TestResolveAllOrNothing(t *testing.T) {
	t.Parallel()
	resolver := NewConflictResolver()

	// [allow-listed, allow-listed, reservation-overlap] can never auto-resolve.
	conflicts := []entity.ResourceBlock{
		eventBlock("meeting", entity.BlockPriorityLow),
		eventBlock("inspection", entity.BlockPriorityLow),
		activeBlock(entity.BlockKindBooking, day(10), day(12)),
	}
	res := resolver.Resolve(day(10), day(12), conflicts)
	require.False(t, res.CanAutoResolve)

	// A single non-allow-listed event also blocks the whole set.
	conflicts = []entity.ResourceBlock{
		eventBlock("meeting", entity.BlockPriorityLow),
		eventBlock("owner_visit", entity.BlockPriorityLow),
	}
	res = resolver.Resolve(day(10), day(12), conflicts)
	require.False(t, res.CanAutoResolve)
}

func TestResolveAllowListedEventsAutoResolve(t *testing.T) {
	t.Parallel()
	resolver := NewConflictResolver()

	conflicts := []entity.ResourceBlock{
		eventBlock("meeting", entity.BlockPriorityLow),
		eventBlock("inspection", entity.BlockPriorityMedium),
		eventBlock("other", entity.BlockPriorityLow),
	}
	res := resolver.Resolve(day(10), day(12), conflicts)
	require.True(t, res.CanAutoResolve)
	require.Equal(t, SeverityMedium, res.Severity)
	require.Len(t, res.Resolvable, 3)

	// Ordered plan: reschedule each event, notify staff, proceed.
	require.Len(t, res.SuggestedActions, 5)
	for i := 0; i < 3; i++ {
		require.Equal(t, ActionRescheduleEvent, res.SuggestedActions[i].Type)
		require.NotNil(t, res.SuggestedActions[i].TargetID)
	}
	require.Equal(t, ActionNotifyStaff, res.SuggestedActions[3].Type)
	require.Equal(t, ActionProceed, res.SuggestedActions[4].Type)
}

func TestResolveSeverityIsMax(t *testing.T) {
	t.Parallel()
	resolver := NewConflictResolver()

	conflicts := []entity.ResourceBlock{
		eventBlock("meeting", entity.BlockPriorityLow),
		eventBlock("audit", entity.BlockPriorityCritical),
	}
	res := resolver.Resolve(day(10), day(12), conflicts)
	require.Equal(t, SeverityCritical, res.Severity)
	require.False(t, res.CanAutoResolve)
}
