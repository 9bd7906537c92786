package service

import (
	"fmt"
	"time"

	"stayops/modules/schedule/entity"

	"github.com/google/uuid"
)

type ConflictSeverity string

const (
	SeverityLow      ConflictSeverity = "low"
	SeverityMedium   ConflictSeverity = "medium"
	SeverityHigh     ConflictSeverity = "high"
	SeverityCritical ConflictSeverity = "critical"
)

var severityByRank = map[int]ConflictSeverity{
	1: SeverityLow,
	2: SeverityMedium,
	3: SeverityHigh,
	4: SeverityCritical,
}

// Action is one step of the resolver's suggested plan, consumed by the coordinator.
type Action struct {
	Type        string     `json:"type"`
	TargetID    *uuid.UUID `json:"target_id,omitempty"`
	Description string     `json:"description"`
}

const (
	ActionRescheduleEvent = "reschedule_event"
	ActionNotifyStaff     = "notify_staff"
	ActionProceed         = "proceed"
	ActionEscalate        = "escalate_manual_review"
	ActionSuggestWindows  = "suggest_alternatives"
)

// Resolution classifies a conflict set for one requested window.
type Resolution struct {
	Severity         ConflictSeverity       `json:"severity"`
	CanAutoResolve   bool                   `json:"can_auto_resolve"`
	Reasoning        string                 `json:"reasoning"`
	SuggestedActions []Action               `json:"suggested_actions"`
	Resolvable       []entity.ResourceBlock `json:"-"`
}

// autoResolvableEventTypes is the low-priority allow-list: a calendar-event
// conflict is auto-resolvable only when its subtype appears here.
var autoResolvableEventTypes = map[string]bool{
	"meeting":    true,
	"inspection": true,
	"other":      true,
}

// ConflictResolver decides whether a conflict set can be resolved without an operator.
type ConflictResolver struct{}

func NewConflictResolver() *ConflictResolver {
	return &ConflictResolver{}
}

// Resolve classifies the conflicts against the requested window.
//
// Severity is the maximum across conflicts. A direct reservation overlap
// forces severity at least high and blocks auto-resolution unconditionally.
// Event conflicts auto-resolve only if every one of them is allow-listed:
// a single non-allow-listed event blocks the whole set.
func (r *ConflictResolver) Resolve(start, end time.Time, conflicts []entity.ResourceBlock) *Resolution {
	if len(conflicts) == 0 {
		return &Resolution{
			Severity:       SeverityLow,
			CanAutoResolve: true,
			Reasoning:      "no conflicts in requested window",
			SuggestedActions: []Action{
				{Type: ActionProceed, Description: "window is free, proceed with acceptance"},
			},
		}
	}

	maxRank := 0
	hasBookingOverlap := false
	allEventsResolvable := true
	var resolvable []entity.ResourceBlock

	for _, c := range conflicts {
		rank := c.Priority.Rank()
		if c.IsBookingConflict() {
			hasBookingOverlap = true
			if rank < entity.BlockPriorityHigh.Rank() {
				rank = entity.BlockPriorityHigh.Rank()
			}
		} else if c.Kind == entity.BlockKindBuffer {
			resolvable = append(resolvable, c)
		} else {
			eventType := ""
			if c.EventType != nil {
				eventType = *c.EventType
			}
			if autoResolvableEventTypes[eventType] {
				resolvable = append(resolvable, c)
			} else {
				allEventsResolvable = false
			}
		}
		if rank > maxRank {
			maxRank = rank
		}
	}
	if maxRank == 0 {
		maxRank = 1
	}

	res := &Resolution{Severity: severityByRank[maxRank]}

	if hasBookingOverlap {
		res.CanAutoResolve = false
		res.Reasoning = "requested window overlaps a confirmed booking"
		res.SuggestedActions = escalationActions()
		return res
	}

	if !allEventsResolvable {
		res.CanAutoResolve = false
		res.Reasoning = "conflict set contains a non-reschedulable calendar event"
		res.SuggestedActions = escalationActions()
		return res
	}

	res.CanAutoResolve = true
	res.Resolvable = resolvable
	res.Reasoning = fmt.Sprintf("all %d conflicting events are low-priority and reschedulable", len(resolvable))
	for i := range resolvable {
		id := resolvable[i].ID
		res.SuggestedActions = append(res.SuggestedActions, Action{
			Type:        ActionRescheduleEvent,
			TargetID:    &id,
			Description: fmt.Sprintf("reschedule %s block out of the requested window", resolvable[i].Kind),
		})
	}
	res.SuggestedActions = append(res.SuggestedActions,
		Action{Type: ActionNotifyStaff, Description: "notify staff affected by rescheduled events"},
		Action{Type: ActionProceed, Description: "proceed with acceptance"},
	)
	return res
}

func escalationActions() []Action {
	return []Action{
		{Type: ActionEscalate, Description: "park reservation for manual review"},
		{Type: ActionSuggestWindows, Description: "offer nearby alternative windows to the requester"},
		{Type: ActionNotifyStaff, Description: "notify operations staff of the unresolved conflict"},
	}
}
