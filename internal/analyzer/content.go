package analyzer

import (
	"context"

	"github.com/clipforge/clipforge/internal/domain/signal"
	"github.com/clipforge/clipforge/internal/types"
)

// Fixed boosts applied on top of the model's raw engagement score.
var (
	viralBonus = map[string]int{"high": 15, "medium": 5, "low": 0}

	contentBonus = map[string]int{
		"action":        10,
		"reaction":      12,
		"tutorial":      8,
		"entertainment": 10,
		"other":         0,
	}
)

// Boost applies the viral-potential and content-type bonuses to a raw
// judgement score, capped at 100.
func Boost(j types.ContentJudgement) int {
	score := j.Score + viralBonus[j.ViralPotential] + contentBonus[j.ContentType]
	if score > 100 {
		score = 100
	}
	return score
}

// analyzeContent samples one frame every SampleInterval seconds (capped
// at MaxVisionFrames) and asks the vision judge for a verdict. When the
// judge is unreachable the whole signal is skipped and fusion falls back
// to the reduced weight set.
func (a *Analyzer) analyzeContent(ctx context.Context, mediaPath string, duration float64) (signal.Timeline, signal.JudgementMap) {
	scores := signal.Timeline{}
	judgements := signal.JudgementMap{}

	if !a.visionAvailable(ctx) {
		a.log.Info("vision judge unavailable, skipping content analysis")
		return scores, judgements
	}

	interval := a.cfg.SampleInterval
	framesToAnalyze := int(duration) / interval
	if framesToAnalyze > a.cfg.MaxVisionFrames {
		framesToAnalyze = a.cfg.MaxVisionFrames
	}

	for i := 0; i < framesToAnalyze; i++ {
		if ctx.Err() != nil {
			break
		}
		ts := float64(i * interval)

		jpeg, err := a.video.ExtractFrameJPEG(ctx, mediaPath, ts)
		if err != nil {
			a.log.WithError(err).WithField("timestamp", ts).Warn("frame extraction failed")
			continue
		}
		judgement, err := a.judge.Judge(ctx, jpeg)
		if err != nil {
			a.log.WithError(err).WithField("timestamp", ts).Warn("frame judgement failed")
			continue
		}

		judgement.Score = Boost(judgement)
		scores[ts] = float64(judgement.Score)
		judgements[ts] = judgement
	}

	a.log.WithField("frames", len(scores)).Debug("content analysis complete")
	return scores, judgements
}
