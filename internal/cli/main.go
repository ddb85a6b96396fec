// Package cli wires configuration, adapters and the pipeline behind the
// clipforge command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/analyzer"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/ports/adapters/ffmpeg"
	"github.com/clipforge/clipforge/internal/ports/adapters/ollama"
	"github.com/clipforge/clipforge/internal/ports/adapters/ytdlp"
	"github.com/clipforge/clipforge/internal/storage"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:           "clipforge",
		Short:         "Generate vertical short clips from YouTube videos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.AddCommand(serveCmd(), runCmd(), cleanupCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// buildPipeline assembles the adapters and the job pipeline from config.
func buildPipeline(cfg config.Config, store *jobs.Store, log *logrus.Logger) (*pipeline.Pipeline, error) {
	if err := storage.EnsureDirs(cfg.TempDir); err != nil {
		return nil, fmt.Errorf("prepare temp dir: %w", err)
	}

	video := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	source := ytdlp.New(cfg.YtdlpPath)

	var judge ports.VisionJudge = ollama.Disabled{}
	if cfg.VisionEnabled {
		judge = ollama.New(cfg.OllamaHost, cfg.OllamaModel, log)
	}

	outW, outH := cfg.OutputSize()
	return pipeline.New(pipeline.Deps{
		Source: source,
		Video:  video,
		Jobs:   store,
		NewAnalyzer: func(workDir string) pipeline.Analyzer {
			return analyzer.New(video, judge, analyzer.Config{
				WorkDir:         workDir,
				SampleInterval:  cfg.SampleInterval,
				MaxVisionFrames: cfg.MaxVisionFrames,
				FaceCascadePath: cfg.FaceCascade,
			}, log)
		},
		Log: log,
	}, pipeline.Config{
		TempDir:          cfg.TempDir,
		MaxVideoDuration: cfg.MaxVideoDuration,
		OutputWidth:      outW,
		OutputHeight:     outH,
	})
}
