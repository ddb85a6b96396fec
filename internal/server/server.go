// Package server exposes the job API over HTTP.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/sirupsen/logrus"

	"github.com/clipforge/clipforge/internal/jobs"
)

type Config struct {
	Port        int
	CORSOrigins string
	TempDir     string
}

// Runner executes a queued job to completion in the background.
type Runner interface {
	Run(ctx context.Context, jobID string) error
}

type Server struct {
	app      *fiber.App
	jobs     *jobs.Store
	runner   Runner
	cfg      Config
	log      *logrus.Logger
	validate *validator.Validate
}

func New(cfg Config, store *jobs.Store, runner Runner, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	s := &Server{
		jobs:     store,
		runner:   runner,
		cfg:      cfg,
		log:      log,
		validate: validator.New(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "clipforge",
		DisableStartupMessage: true,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(requestLogger(log))

	app.Get("/", s.health)

	api := app.Group("/api")
	api.Post("/process-video", limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Hour,
	}), s.processVideo)
	api.Get("/status/:id", s.status)
	api.Get("/download/:id/:index", s.download)
	api.Get("/preview/:id/:index", s.preview)
	api.Delete("/job/:id", s.deleteJob)

	s.app = app
	return s
}

func (s *Server) Listen() error {
	s.log.WithField("port", s.cfg.Port).Info("starting API server")
	return s.app.Listen(fmt.Sprintf(":%d", s.cfg.Port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
