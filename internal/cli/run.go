package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/clipforge/clipforge/internal/urlcheck"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <youtube-url>",
		Short: "Process a single video and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			duration, _ := cmd.Flags().GetInt("duration")
			clips, _ := cmd.Flags().GetInt("clips")

			if !urlcheck.IsYouTubeURL(url) {
				return errors.New("not a YouTube URL")
			}
			if duration <= 0 {
				return errors.New("duration must be > 0")
			}
			if clips <= 0 {
				return errors.New("clips must be > 0")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger()

			store := jobs.NewStore()
			pipe, err := buildPipeline(cfg, store, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
			defer cancel()

			job := store.Create(url, duration, clips)
			if err := pipe.Run(ctx, job.ID); err != nil {
				return err
			}

			done, err := store.Get(job.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", done.Message)
			for _, clip := range done.Clips {
				fmt.Fprintf(out, "  %s  [%.0fs - %.0fs]  score %.1f\n",
					clip.Filename, clip.StartTime, clip.EndTime, clip.Score)
			}
			fmt.Fprintf(out, "clips written to %s\n", storage.OutputDir(cfg.TempDir, job.ID))
			return nil
		},
	}
	cmd.Flags().Int("duration", 60, "Clip duration in seconds")
	cmd.Flags().Int("clips", 5, "Number of clips to generate")
	return cmd
}
