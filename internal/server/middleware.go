package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// requestLogger logs every request with a generated request ID. The ID is
// stored in locals so handlers can attach it to their own log lines.
func requestLogger(log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()
		c.Locals("requestid", requestID)

		err := c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Method(),
			"uri":        c.OriginalURL(),
			"status":     c.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.IP(),
		})
		switch {
		case err != nil:
			entry.WithError(err).Error("request failed")
		case c.Response().StatusCode() >= 500:
			entry.Error("request completed with server error")
		case c.Response().StatusCode() >= 400:
			entry.Warn("request completed with client error")
		default:
			entry.Info("request completed")
		}
		return err
	}
}
