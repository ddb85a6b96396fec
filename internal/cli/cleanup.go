package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/storage"
)

func cleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove downloads and clips older than the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			maxAge, _ := cmd.Flags().GetDuration("max-age")
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger()

			deleted := storage.CleanupOld(cfg.TempDir, maxAge, log)
			size, files := storage.Usage(cfg.TempDir)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries, %d files (%.1f MB) remain\n",
				deleted, files, float64(size)/(1024*1024))
			return nil
		},
	}
	cmd.Flags().Duration("max-age", 24*time.Hour, "Delete artifacts older than this (0 deletes everything)")
	return cmd
}
