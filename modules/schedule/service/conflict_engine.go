package service

import (
	"sort"
	"time"

	"stayops/modules/schedule/dto"
	"stayops/modules/schedule/entity"
)

const (
	alternativeScanDays = 30
	maxAlternatives     = 3
	minConfidence       = 0.1
)

// ConflictEngine performs overlap detection and alternative-window search over
// the block set of one property. All methods are pure functions over the given
// slice and are safe to call concurrently.
type ConflictEngine struct{}

func NewConflictEngine() *ConflictEngine {
	return &ConflictEngine{}
}

// FindConflicts returns every active block overlapping [start, end), skipping
// the given kinds. Intervals are half-open: touching endpoints do not conflict.
func (e *ConflictEngine) FindConflicts(blocks []entity.ResourceBlock, start, end time.Time, excludeKinds ...entity.BlockKind) []entity.ResourceBlock {
	excluded := make(map[entity.BlockKind]bool, len(excludeKinds))
	for _, k := range excludeKinds {
		excluded[k] = true
	}

	var conflicts []entity.ResourceBlock
	for _, b := range blocks {
		if b.Status != entity.BlockStatusActive {
			continue
		}
		if excluded[b.Kind] {
			continue
		}
		if b.Overlaps(start, end) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// CheckAvailability reports whether [start, end) is free of hard blocks.
// Buffer blocks are soft and excluded here; the resolver treats them separately.
func (e *ConflictEngine) CheckAvailability(blocks []entity.ResourceBlock, start, end time.Time) dto.AvailabilityResult {
	conflicts := e.FindConflicts(blocks, start, end, entity.BlockKindBuffer)
	return dto.AvailabilityResult{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}
}

// SuggestAlternatives scans day offsets within ±30 days of the requested
// window (offset 0 excluded), keeping the same duration. Candidates are ranked
// by confidence = max(0.1, 1 - |offset|/30) and the top 3 are returned in
// descending confidence order.
func (e *ConflictEngine) SuggestAlternatives(blocks []entity.ResourceBlock, start, end time.Time) []dto.AlternativeWindow {
	duration := end.Sub(start)
	var alternatives []dto.AlternativeWindow

	for d := 1; d <= alternativeScanDays && len(alternatives) < maxAlternatives; d++ {
		for _, offset := range []int{d, -d} {
			if len(alternatives) >= maxAlternatives {
				break
			}
			candidateStart := start.AddDate(0, 0, offset)
			candidateEnd := candidateStart.Add(duration)

			if len(e.FindConflicts(blocks, candidateStart, candidateEnd, entity.BlockKindBuffer)) > 0 {
				continue
			}

			confidence := 1 - float64(abs(offset))/float64(alternativeScanDays)
			if confidence < minConfidence {
				confidence = minConfidence
			}

			alternatives = append(alternatives, dto.AlternativeWindow{
				StartAt:    candidateStart,
				EndAt:      candidateEnd,
				OffsetDays: offset,
				Confidence: confidence,
			})
		}
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].Confidence > alternatives[j].Confidence
	})

	return alternatives
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
