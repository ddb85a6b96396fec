package analyzer

import (
	"context"
	"math"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/clipforge/clipforge/internal/domain/signal"
)

// Face sampling: 1 frame per second at a resolution the detector handles
// well. Scores reward coverage and count, with coverage dominant.
const (
	faceFPS    = 1.0
	faceWidth  = 640
	faceHeight = 360

	faceMinQuality = 5.0
)

// analyzeFaces runs the pigo face detector on one frame per second and
// scores min(100, totalFaceArea/frameArea*500 + faceCount*10).
func (a *Analyzer) analyzeFaces(ctx context.Context, mediaPath string) signal.Timeline {
	classifier, err := a.loadFaceClassifier()
	if err != nil {
		a.log.WithError(err).Warn("face analysis skipped: cascade unavailable")
		return signal.Timeline{}
	}

	frames, err := a.video.SampleGrayFrames(ctx, mediaPath, faceFPS, faceWidth, faceHeight)
	if err != nil {
		a.log.WithError(err).Warn("face analysis skipped")
		return signal.Timeline{}
	}

	frameArea := float64(faceWidth * faceHeight)
	scores := signal.Timeline{}
	for i, frame := range frames {
		if len(frame) != faceWidth*faceHeight {
			continue
		}
		dets := classifier.RunCascade(pigo.CascadeParams{
			MinSize:     30,
			MaxSize:     faceHeight,
			ShiftFactor: 0.1,
			ScaleFactor: 1.1,
			ImageParams: pigo.ImageParams{
				Pixels: frame,
				Rows:   faceHeight,
				Cols:   faceWidth,
				Dim:    faceWidth,
			},
		}, 0.0)
		dets = classifier.ClusterDetections(dets, 0.2)

		var totalArea float64
		var count int
		for _, d := range dets {
			if d.Q < faceMinQuality {
				continue
			}
			totalArea += float64(d.Scale) * float64(d.Scale)
			count++
		}
		score := 0.0
		if count > 0 {
			score = math.Min(100, totalArea/frameArea*500+float64(count)*10)
		}
		scores[float64(i)/faceFPS] = score
	}
	a.log.WithField("timestamps", len(scores)).Debug("face analysis complete")
	return scores
}

func (a *Analyzer) loadFaceClassifier() (*pigo.Pigo, error) {
	cascade, err := os.ReadFile(a.cfg.FaceCascadePath)
	if err != nil {
		return nil, err
	}
	return pigo.NewPigo().Unpack(cascade)
}
