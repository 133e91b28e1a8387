package middleware

import (
	"time"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs every request once it has been handled.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
		})
		if err != nil {
			entry.WithError(err).Warn("request failed")
		} else {
			entry.Debug("request")
		}
		return err
	}
}
