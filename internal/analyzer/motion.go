package analyzer

import (
	"context"
	"math"

	"github.com/clipforge/clipforge/internal/domain/signal"
)

// Motion sampling: ~2 frames per second at a small fixed resolution.
const (
	motionFPS    = 2.0
	motionWidth  = 320
	motionHeight = 180

	motionBlock       = 16
	motionSearch      = 7
	motionScaleFactor = 10
)

// analyzeMotion estimates dense motion between consecutive sampled frames
// with block matching and scores the mean flow magnitude, scaled and
// capped at 100.
func (a *Analyzer) analyzeMotion(ctx context.Context, mediaPath string) signal.Timeline {
	frames, err := a.video.SampleGrayFrames(ctx, mediaPath, motionFPS, motionWidth, motionHeight)
	if err != nil {
		a.log.WithError(err).Warn("motion analysis skipped")
		return signal.Timeline{}
	}

	scores := signal.Timeline{}
	for i := 1; i < len(frames); i++ {
		prev, cur := frames[i-1], frames[i]
		if len(prev) != motionWidth*motionHeight || len(cur) != motionWidth*motionHeight {
			continue
		}
		mag := meanFlowMagnitude(prev, cur, motionWidth, motionHeight)
		scores[float64(i)/motionFPS] = math.Min(100, mag*motionScaleFactor)
	}
	a.log.WithField("timestamps", len(scores)).Debug("motion analysis complete")
	return scores
}

// meanFlowMagnitude runs exhaustive block matching: for each block of the
// previous frame it finds the lowest-SAD displacement within the search
// radius in the current frame, then averages the displacement magnitudes.
// Coarse compared to a real dense flow, but at 320x180 the mean magnitude
// tracks the same quantity.
func meanFlowMagnitude(prev, cur []byte, w, h int) float64 {
	var total float64
	var blocks int
	for by := 0; by+motionBlock <= h; by += motionBlock {
		for bx := 0; bx+motionBlock <= w; bx += motionBlock {
			dx, dy := matchBlock(prev, cur, w, h, bx, by)
			total += math.Sqrt(float64(dx*dx + dy*dy))
			blocks++
		}
	}
	if blocks == 0 {
		return 0
	}
	return total / float64(blocks)
}

func matchBlock(prev, cur []byte, w, h, bx, by int) (int, int) {
	// Zero displacement is evaluated first and wins ties, so static
	// scenes report zero motion.
	bestSAD := blockSAD(prev, cur, w, bx, by, bx, by)
	bestDX, bestDY := 0, 0
	for dy := -motionSearch; dy <= motionSearch; dy++ {
		for dx := -motionSearch; dx <= motionSearch; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ox, oy := bx+dx, by+dy
			if ox < 0 || oy < 0 || ox+motionBlock > w || oy+motionBlock > h {
				continue
			}
			if sad := blockSAD(prev, cur, w, bx, by, ox, oy); sad < bestSAD {
				bestSAD = sad
				bestDX, bestDY = dx, dy
			}
		}
	}
	return bestDX, bestDY
}

func blockSAD(prev, cur []byte, w, bx, by, ox, oy int) int64 {
	var sad int64
	for y := 0; y < motionBlock; y++ {
		prow := (by + y) * w
		crow := (oy + y) * w
		for x := 0; x < motionBlock; x++ {
			d := int64(prev[prow+bx+x]) - int64(cur[crow+ox+x])
			if d < 0 {
				d = -d
			}
			sad += d
		}
	}
	return sad
}
