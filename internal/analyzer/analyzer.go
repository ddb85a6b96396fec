// Package analyzer scores a video's timeline for engagingness by fusing
// five independent signals: audio energy, scene changes, motion, face
// prominence and vision-model content judgements.
package analyzer

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/clipforge/clipforge/internal/domain/fusion"
	"github.com/clipforge/clipforge/internal/domain/signal"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
)

type Config struct {
	// WorkDir holds per-run scratch artifacts (extracted audio).
	WorkDir string

	// SampleInterval is the spacing in seconds between vision-judged
	// frames; MaxVisionFrames caps how many are judged per video.
	SampleInterval  int
	MaxVisionFrames int

	// FaceCascadePath points at the binary pigo face cascade. When the
	// file is missing the face signal degrades to absent.
	FaceCascadePath string
}

func (c Config) withDefaults() Config {
	if c.SampleInterval <= 0 {
		c.SampleInterval = 3
	}
	if c.MaxVisionFrames <= 0 {
		c.MaxVisionFrames = 50
	}
	return c
}

type Analyzer struct {
	video ports.VideoTool
	judge ports.VisionJudge
	cfg   Config
	log   *logrus.Entry

	// The vision availability probe is expensive (model listing plus a
	// pull attempt), so it runs once per analyzer lifetime.
	visionOnce sync.Once
	visionOK   bool
}

func New(video ports.VideoTool, judge ports.VisionJudge, cfg Config, log *logrus.Logger) *Analyzer {
	if log == nil {
		log = logrus.New()
	}
	return &Analyzer{
		video: video,
		judge: judge,
		cfg:   cfg.withDefaults(),
		log:   log.WithField("component", "analyzer"),
	}
}

// Analyze scores every second of the video and returns the full segment
// list ranked by score descending. The extractors are independent and
// side-effect-free on shared state, so they run fully in parallel; a
// single extractor failing degrades that one signal to absent instead of
// aborting the analysis.
func (a *Analyzer) Analyze(ctx context.Context, mediaPath string) ([]types.Segment, error) {
	probe, err := a.video.Probe(ctx, mediaPath)
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}
	if probe.Duration <= 0 {
		return nil, fmt.Errorf("video has no measurable duration")
	}
	a.log.WithFields(logrus.Fields{
		"path":     mediaPath,
		"duration": probe.Duration,
	}).Info("starting video analysis")

	var (
		audio, scene, motion, faces, content signal.Timeline
		judgements                           signal.JudgementMap
		wg                                   sync.WaitGroup
	)
	wg.Add(5)
	go func() { defer wg.Done(); audio = a.analyzeAudio(ctx, mediaPath, probe.Duration) }()
	go func() { defer wg.Done(); scene = a.analyzeScenes(ctx, mediaPath) }()
	go func() { defer wg.Done(); motion = a.analyzeMotion(ctx, mediaPath) }()
	go func() { defer wg.Done(); faces = a.analyzeFaces(ctx, mediaPath) }()
	go func() { defer wg.Done(); content, judgements = a.analyzeContent(ctx, mediaPath, probe.Duration) }()
	wg.Wait()

	segments := fusion.Combine(fusion.Inputs{
		Duration:   probe.Duration,
		Audio:      audio,
		Scene:      scene,
		Motion:     motion,
		Faces:      faces,
		Content:    content,
		Judgements: judgements,
	})
	a.log.WithField("segments", len(segments)).Info("analysis complete")
	return segments, nil
}

func (a *Analyzer) visionAvailable(ctx context.Context) bool {
	a.visionOnce.Do(func() {
		if a.judge == nil {
			return
		}
		a.visionOK = a.judge.Available(ctx)
	})
	return a.visionOK
}
