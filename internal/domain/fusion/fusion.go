package fusion

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/clipforge/clipforge/internal/domain/signal"
	"github.com/clipforge/clipforge/internal/types"
)

// Weights for the per-second composite score. Each set sums to 1.0, so a
// composite of in-range inputs stays in [0,100] by construction.
type Weights struct {
	Audio   float64
	Motion  float64
	Scene   float64
	Faces   float64
	Content float64
}

var (
	weightsWithContent    = Weights{Audio: 0.20, Motion: 0.20, Scene: 0.15, Faces: 0.15, Content: 0.30}
	weightsWithoutContent = Weights{Audio: 0.30, Motion: 0.25, Scene: 0.20, Faces: 0.25, Content: 0}
)

// SelectWeights picks the weight set for a run. The content term is only
// carried when at least one vision judgement exists anywhere in the run.
func SelectWeights(hasContent bool) Weights {
	if hasContent {
		return weightsWithContent
	}
	return weightsWithoutContent
}

// Reason score thresholds.
const (
	audioReasonMin  = 60
	motionReasonMin = 50
	sceneReasonMin  = 40
	facesReasonMin  = 30
	aiReasonMin     = 70
)

// Inputs are the five already-completed, immutable signal timelines for
// one video, plus the raw judgements backing the content timeline.
type Inputs struct {
	Duration   float64
	Audio      signal.Timeline
	Scene      signal.Timeline
	Motion     signal.Timeline
	Faces      signal.Timeline
	Content    signal.Timeline
	Judgements signal.JudgementMap
}

// Combine fuses the signals into one segment per integer second of the
// video and returns them ranked by score descending. Chronological order
// breaks ties (the sort is stable and keyed on score only); this ranked
// order is the contract the selector consumes.
func Combine(in Inputs) []types.Segment {
	hasContent := len(in.Content) > 0
	w := SelectWeights(hasContent)

	n := int(in.Duration)
	segments := make([]types.Segment, 0, n)
	for t := 0; t < n; t++ {
		ts := float64(t)

		audio := in.Audio.At(ts, signal.Tolerance)
		motion := in.Motion.At(ts, signal.Tolerance)
		scene := in.Scene.At(ts, signal.Tolerance)
		faces := in.Faces.At(ts, signal.Tolerance)
		var content float64
		if hasContent {
			content = in.Content.At(ts, signal.ContentTolerance)
		}
		judgement := in.Judgements.At(ts)

		score := audio*w.Audio + motion*w.Motion + scene*w.Scene + faces*w.Faces + content*w.Content

		var reasons []string
		if audio > audioReasonMin {
			reasons = append(reasons, "High audio energy")
		}
		if motion > motionReasonMin {
			reasons = append(reasons, "High motion")
		}
		if scene > sceneReasonMin {
			reasons = append(reasons, "Visual interest")
		}
		if faces > facesReasonMin {
			reasons = append(reasons, "Face detected")
		}
		if judgement != nil {
			if judgement.ViralPotential == "high" {
				reasons = append(reasons, "High viral potential: "+orDefault(judgement.Description, "Engaging content"))
			} else if judgement.Score > aiReasonMin {
				reasons = append(reasons, "AI detected: "+orDefault(judgement.ContentType, "engaging")+" content")
			}
			switch judgement.Mood {
			case "exciting", "funny", "emotional":
				reasons = append(reasons, title(judgement.Mood)+" moment")
			}
		}

		details := types.ScoreDetails{
			Audio:  round2(audio),
			Motion: round2(motion),
			Scene:  round2(scene),
			Faces:  round2(faces),
		}
		if hasContent {
			c := round2(content)
			details.Content = &c
		}

		seg := types.Segment{
			Start:   t,
			Score:   round2(score),
			Reasons: reasons,
			Details: details,
		}
		if judgement != nil {
			seg.AI = &types.AIInsights{
				Description:    judgement.Description,
				ContentType:    judgement.ContentType,
				Mood:           judgement.Mood,
				ViralPotential: judgement.ViralPotential,
				HasPerson:      judgement.HasPerson,
				HasText:        judgement.HasText,
			}
		}
		segments = append(segments, seg)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Score > segments[j].Score
	})
	return segments
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// String implements a compact debug rendering of a weight set.
func (w Weights) String() string {
	return fmt.Sprintf("audio=%.2f motion=%.2f scene=%.2f faces=%.2f content=%.2f",
		w.Audio, w.Motion, w.Scene, w.Faces, w.Content)
}
