package signal

import (
	"math"

	"github.com/clipforge/clipforge/internal/types"
)

// Tolerances for nearest-neighbor resampling. The vision signal is sampled
// far more sparsely than the audio/visual ones, so it gets a wider reach.
const (
	Tolerance        = 1.0
	ContentTolerance = 5.0
)

// Timeline is a sparse mapping from timestamp (seconds) to a score in
// [0,100]. Timestamps are neither integral nor evenly spaced; each
// extractor owns its timeline until it is handed, read-only, to fusion.
type Timeline map[float64]float64

// At resolves the timeline value for an integer-second query t. An exact
// key wins outright; otherwise the nearest key within tolerance is used,
// and anything farther resolves to 0. Timelines hold at most a few
// thousand points, so a linear scan is fine here.
func (tl Timeline) At(t, tolerance float64) float64 {
	if len(tl) == 0 {
		return 0
	}
	if v, ok := tl[t]; ok {
		return v
	}
	nearest, dist := math.NaN(), math.MaxFloat64
	for ts := range tl {
		if d := math.Abs(ts - t); d < dist {
			nearest, dist = ts, d
		}
	}
	if dist <= tolerance {
		return tl[nearest]
	}
	return 0
}

// JudgementMap carries the full per-frame verdicts alongside the boosted
// content score timeline.
type JudgementMap map[float64]types.ContentJudgement

// At finds the judgement nearest to t within the content tolerance, or
// nil when none is close enough.
func (jm JudgementMap) At(t float64) *types.ContentJudgement {
	if len(jm) == 0 {
		return nil
	}
	if j, ok := jm[t]; ok {
		return &j
	}
	nearest, dist := math.NaN(), math.MaxFloat64
	for ts := range jm {
		if d := math.Abs(ts - t); d < dist {
			nearest, dist = ts, d
		}
	}
	if dist <= ContentTolerance {
		j := jm[nearest]
		return &j
	}
	return nil
}
