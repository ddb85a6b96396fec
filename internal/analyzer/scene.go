package analyzer

import (
	"context"

	"github.com/clipforge/clipforge/internal/domain/signal"
)

// Scene-change sampling: ~2 frames per second on a small grayscale grid.
const (
	sceneFPS    = 2.0
	sceneWidth  = 160
	sceneHeight = 90
)

// analyzeScenes scores sampled frames by the mean absolute intensity
// difference from the previous sampled frame. The first sampled frame has
// no predecessor and stays unscored.
func (a *Analyzer) analyzeScenes(ctx context.Context, mediaPath string) signal.Timeline {
	frames, err := a.video.SampleGrayFrames(ctx, mediaPath, sceneFPS, sceneWidth, sceneHeight)
	if err != nil {
		a.log.WithError(err).Warn("scene analysis skipped")
		return signal.Timeline{}
	}

	scores := signal.Timeline{}
	for i := 1; i < len(frames); i++ {
		prev, cur := frames[i-1], frames[i]
		if len(prev) != len(cur) || len(cur) == 0 {
			continue
		}
		var sum int64
		for j := range cur {
			d := int64(cur[j]) - int64(prev[j])
			if d < 0 {
				d = -d
			}
			sum += d
		}
		mean := float64(sum) / float64(len(cur))
		scores[float64(i)/sceneFPS] = mean / 255 * 100
	}
	a.log.WithField("timestamps", len(scores)).Debug("scene analysis complete")
	return scores
}
