// Package pipeline runs one video-processing job end to end: fetch the
// source, analyze it, select the best windows and export vertical clips.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/clipforge/clipforge/internal/domain/selection"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/ports/adapters/ffmpeg"
	"github.com/clipforge/clipforge/internal/ports/adapters/ollama"
	"github.com/clipforge/clipforge/internal/ports/adapters/ytdlp"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/clipforge/clipforge/internal/types"
	"github.com/clipforge/clipforge/internal/urlcheck"
)

// Analyzer scores every second of a video and returns the segments
// ranked by score descending.
type Analyzer interface {
	Analyze(ctx context.Context, mediaPath string) ([]types.Segment, error)
}

type Config struct {
	TempDir          string
	MaxVideoDuration int
	OutputWidth      int
	OutputHeight     int
}

func (c Config) Validate() error {
	if c.TempDir == "" {
		return errors.New("temp dir is empty")
	}
	if c.MaxVideoDuration <= 0 {
		return fmt.Errorf("max video duration must be > 0")
	}
	if c.OutputWidth <= 0 || c.OutputHeight <= 0 {
		return fmt.Errorf("output size %dx%d is invalid", c.OutputWidth, c.OutputHeight)
	}
	return nil
}

type Deps struct {
	Source ports.MediaSource
	Video  ports.VideoTool
	Jobs   *jobs.Store

	// NewAnalyzer builds a per-job analyzer rooted at the job's scratch
	// directory, keeping concurrent jobs' artifacts apart.
	NewAnalyzer func(workDir string) Analyzer

	Log *logrus.Logger
}

type Pipeline struct {
	source      ports.MediaSource
	video       ports.VideoTool
	jobs        *jobs.Store
	newAnalyzer func(workDir string) Analyzer
	cfg         Config
	log         *logrus.Entry
}

func New(deps Deps, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	if deps.Source == nil || deps.Video == nil || deps.Jobs == nil || deps.NewAnalyzer == nil {
		return nil, errors.New("pipeline deps are incomplete")
	}
	log := deps.Log
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		source:      deps.Source,
		video:       deps.Video,
		jobs:        deps.Jobs,
		newAnalyzer: deps.NewAnalyzer,
		cfg:         cfg,
		log:         log.WithField("component", "pipeline"),
	}, nil
}

// Run processes the job to completion, recording progress and the final
// outcome in the job store. Any error is also recorded on the job.
func (p *Pipeline) Run(ctx context.Context, jobID string) error {
	job, err := p.jobs.Get(jobID)
	if err != nil {
		return err
	}
	log := p.log.WithField("job_id", jobID)

	media, err := p.fetch(ctx, job)
	if err != nil {
		return p.fail(jobID, log, err)
	}

	p.jobs.SetProgress(jobID, jobs.StateAnalyzing, 30, "Analyzing video for engaging moments...")

	outDir := storage.OutputDir(p.cfg.TempDir, jobID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return p.fail(jobID, log, fmt.Errorf("create output dir: %w", err))
	}

	segments, err := p.newAnalyzer(outDir).Analyze(ctx, media.Path)
	if err != nil {
		return p.fail(jobID, log, err)
	}
	if len(segments) == 0 {
		return p.fail(jobID, log, types.ErrNoSegments)
	}

	p.jobs.SetProgress(jobID, jobs.StateProcessing, 60, "Extracting and processing clips...")

	picks := selection.SelectBest(segments, job.ClipDuration, job.ClipCount)
	if len(picks) == 0 {
		return p.fail(jobID, log, types.ErrNoSegments)
	}

	clips := make([]types.ClipInfo, 0, len(picks))
	for i, seg := range picks {
		prog := 60 + (i+1)*8
		if prog > 99 {
			prog = 99
		}
		p.jobs.SetProgress(jobID, jobs.StateProcessing, prog,
			fmt.Sprintf("Processing clip %d of %d...", i+1, len(picks)))

		filename := fmt.Sprintf("clip_%d.mp4", i+1)
		outPath := filepath.Join(outDir, filename)
		start := float64(seg.Start)
		if err := p.video.RenderVertical(ctx, media.Path, start, job.ClipDuration,
			p.cfg.OutputWidth, p.cfg.OutputHeight, outPath); err != nil {
			// One bad window must not sink the whole job.
			log.WithError(err).WithField("clip", i+1).Error("clip export failed")
			continue
		}

		clip := types.ClipInfo{
			Index:     i + 1,
			StartTime: start,
			EndTime:   start + float64(job.ClipDuration),
			Score:     seg.Score,
			Filename:  filename,
			Reasons:   seg.Reasons,
		}
		if fi, err := os.Stat(outPath); err == nil {
			clip.FileSize = fi.Size()
		}
		clips = append(clips, clip)
	}
	if len(clips) == 0 {
		return p.fail(jobID, log, errors.New("failed to export any clips"))
	}

	// The source download stays on disk so repeat requests for the same
	// video hit the cache; the cleanup sweep reclaims it later.
	p.jobs.Complete(jobID, clips, fmt.Sprintf("Successfully generated %d clips!", len(clips)))
	log.WithField("clips", len(clips)).Info("job completed")
	return nil
}

func (p *Pipeline) fetch(ctx context.Context, job jobs.Job) (types.MediaInfo, error) {
	videoID := urlcheck.VideoID(job.URL)
	if videoID == "" {
		return types.MediaInfo{}, fmt.Errorf("could not extract a video ID from %q", job.URL)
	}
	path := storage.DownloadPath(p.cfg.TempDir, videoID)
	if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
		p.jobs.SetProgress(job.ID, jobs.StateAnalyzing, 25, "Using cached video, skipping download...")
		return types.MediaInfo{Path: path, Cached: true}, nil
	}

	p.jobs.SetProgress(job.ID, jobs.StateDownloading, 10, "Downloading video from YouTube...")
	return p.source.Fetch(ctx, job.URL, p.cfg.MaxVideoDuration, path)
}

func (p *Pipeline) fail(jobID string, log *logrus.Entry, err error) error {
	log.WithError(err).Error("job failed")
	p.jobs.Fail(jobID, err.Error())
	return err
}

// ensure adapters implement ports
var _ ports.MediaSource = (*ytdlp.Adapter)(nil)
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.VisionJudge = (*ollama.Adapter)(nil)
var _ ports.VisionJudge = ollama.Disabled{}
