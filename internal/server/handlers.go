package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/storage"
	"github.com/clipforge/clipforge/internal/urlcheck"
)

type processRequest struct {
	URL       string `json:"url" validate:"required"`
	Duration  int    `json:"duration" validate:"oneof=30 60 90 120 180"`
	ClipCount int    `json:"clip_count" validate:"oneof=5 10 15"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "YouTube to Shorts Generator",
	})
}

func (s *Server) processVideo(c *fiber.Ctx) error {
	var req processRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Duration == 0 {
		req.Duration = 60
	}
	if req.ClipCount == 0 {
		req.ClipCount = 5
	}
	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"status":  "error",
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}
	if !urlcheck.IsYouTubeURL(req.URL) {
		return respondError(c, fiber.StatusBadRequest, "Invalid YouTube URL")
	}

	job := s.jobs.Create(req.URL, req.Duration, req.ClipCount)
	go func() {
		// Detached from the request: the job outlives the HTTP exchange
		// and failures land on the job record, not this response.
		_ = s.runner.Run(context.Background(), job.ID)
	}()

	return c.JSON(fiber.Map{"jobId": job.ID, "status": "queued"})
}

func (s *Server) status(c *fiber.Ctx) error {
	job, err := s.jobs.Get(c.Params("id"))
	if errors.Is(err, jobs.ErrNotFound) {
		return respondError(c, fiber.StatusNotFound, "Job not found")
	}
	return c.JSON(fiber.Map{
		"jobId":    job.ID,
		"status":   job.Status,
		"progress": job.Progress,
		"message":  job.Message,
		"clips":    job.Clips,
		"error":    job.Error,
	})
}

func (s *Server) download(c *fiber.Ctx) error {
	job, err := s.jobs.Get(c.Params("id"))
	if errors.Is(err, jobs.ErrNotFound) {
		return respondError(c, fiber.StatusNotFound, "Job not found")
	}
	if job.Status != jobs.StateCompleted {
		return respondError(c, fiber.StatusBadRequest, "Job not completed yet")
	}
	path, idx, err := s.clipPath(job.ID, c.Params("index"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid clip index")
	}
	if _, err := os.Stat(path); err != nil {
		return respondError(c, fiber.StatusNotFound, "Clip not found")
	}
	return c.Download(path, fmt.Sprintf("short_clip_%d.mp4", idx))
}

func (s *Server) preview(c *fiber.Ctx) error {
	job, err := s.jobs.Get(c.Params("id"))
	if errors.Is(err, jobs.ErrNotFound) {
		return respondError(c, fiber.StatusNotFound, "Job not found")
	}
	path, _, err := s.clipPath(job.ID, c.Params("index"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid clip index")
	}
	if _, err := os.Stat(path); err != nil {
		return respondError(c, fiber.StatusNotFound, "Clip not found")
	}
	return c.SendFile(path)
}

func (s *Server) deleteJob(c *fiber.Ctx) error {
	job, err := s.jobs.Get(c.Params("id"))
	if errors.Is(err, jobs.ErrNotFound) {
		return respondError(c, fiber.StatusNotFound, "Job not found")
	}
	if err := os.RemoveAll(storage.OutputDir(s.cfg.TempDir, job.ID)); err != nil {
		s.log.WithError(err).WithField("job_id", job.ID).Error("failed to remove job outputs")
	}
	_ = s.jobs.Delete(job.ID)
	return c.JSON(fiber.Map{"message": "Job deleted successfully"})
}

// clipPath resolves a 1-based clip index inside the job's output dir. The
// index comes from the URL, so it is parsed as a number rather than being
// spliced into a filename.
func (s *Server) clipPath(jobID, rawIndex string) (string, int, error) {
	var idx int
	if _, err := fmt.Sscanf(rawIndex, "%d", &idx); err != nil || idx < 1 {
		return "", 0, fmt.Errorf("bad clip index %q", rawIndex)
	}
	return filepath.Join(storage.OutputDir(s.cfg.TempDir, jobID), fmt.Sprintf("clip_%d.mp4", idx)), idx, nil
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

func formatValidationErrors(err error) []string {
	var out []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msg := fmt.Sprintf("Field '%s' failed on the '%s' rule", fe.Field(), fe.Tag())
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s (allowed: %s)", msg, fe.Param())
			}
			out = append(out, msg)
		}
		return out
	}
	return []string{err.Error()}
}
