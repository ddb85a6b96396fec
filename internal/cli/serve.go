package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/server"
	"github.com/clipforge/clipforge/internal/storage"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			if n := storage.CleanupOld(cfg.TempDir, cfg.CleanupMaxAge, log); n > 0 {
				log.WithField("deleted", n).Info("startup cleanup done")
			}

			srv := server.New(server.Config{
				Port:        cfg.Port,
				CORSOrigins: cfg.CORSOrigins,
				TempDir:     cfg.TempDir,
			}, store, pipe, log)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				log.WithField("signal", sig.String()).Info("shutting down")
				if err := srv.Shutdown(); err != nil {
					log.WithError(err).Error("server shutdown failed")
				}
				storage.CleanupOld(cfg.TempDir, 0, log)
				return nil
			}
		},
	}
}
