package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	config "github.com/zdziszkee/bankmap/internal/configuration"
	"github.com/zdziszkee/bankmap/internal/logger"
	"github.com/zdziszkee/bankmap/internal/metrics"
)

const requestIDKey = "request_id"

// RequestLogger tags every request with an id, logs it when it completes and
// records it in the request metrics. The request-scoped logger is attached to
// the request context.
func RequestLogger(log *zap.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)
		c.Locals(requestIDKey, requestID)

		reqLog := log.With(zap.String("request_id", requestID))
		c.SetContext(logger.WithContext(c.Context(), reqLog))

		// Call the next handler
		err := c.Next()

		status := c.Response().StatusCode()
		route := c.Route().Path
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		if status == fiber.StatusNotFound && errors.Is(err, fiber.ErrNotFound) {
			route = "unmatched"
		}

		elapsed := time.Since(start)
		m.ObserveRequest(c.Method(), route, status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
			zap.String("ip", c.IP()),
		}
		if status >= fiber.StatusInternalServerError {
			reqLog.Error("request failed", append(fields, zap.Error(err))...)
		} else {
			reqLog.Info("request", fields...)
		}

		return err
	}
}

// RequestID returns the id assigned by RequestLogger
func RequestID(c fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// SiteLabels exposes the static site labels to every rendered page
func SiteLabels(site config.SiteConfig) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := c.ViewBind(fiber.Map{"Site": site}); err != nil {
			return err
		}
		return c.Next()
	}
}
