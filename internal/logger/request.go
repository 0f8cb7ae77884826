package logger

import (
	"time"

	"scholarsync/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLogger logs HTTP request/response metadata.
func RequestLogger(lgr zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// The error handler has not run yet, so take the status from the error.
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = apperrors.StatusCode(err)
			}
		}

		event := lgr.Info()
		if status >= fiber.StatusInternalServerError {
			event = lgr.Error()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Str("client_ip", c.IP()).
			Dur("latency", time.Since(start)).
			Msg("http request")

		return err
	}
}
