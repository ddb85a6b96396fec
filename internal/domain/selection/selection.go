package selection

import (
	"sort"

	"github.com/clipforge/clipforge/internal/types"
)

// MinSegmentGap is the mandatory clearance between two selected windows,
// in seconds.
const MinSegmentGap = 2.0

// SelectBest greedily picks up to count non-overlapping segments from a
// score-descending ranked list and returns them in chronological order.
//
// This is a deliberate greedy approximation: it commits to the single
// best segment first with no lookahead, so a non-overlapping cover with
// a higher total score can exist that this never finds. Matching that
// behavior exactly matters more here than optimality.
func SelectBest(ranked []types.Segment, clipDuration, count int) []types.Segment {
	selected := make([]types.Segment, 0, count)

	for _, seg := range ranked {
		if len(selected) >= count {
			break
		}
		start := float64(seg.Start)
		end := start + float64(clipDuration)

		overlaps := false
		for _, sel := range selected {
			selStart := float64(sel.Start)
			selEnd := selStart + float64(clipDuration)
			if !(end+MinSegmentGap <= selStart || start >= selEnd+MinSegmentGap) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			selected = append(selected, seg)
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Start < selected[j].Start
	})
	return selected
}
