package testutil

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// LoggingMiddleware пишет в лог каждый запрос к фейковым серверам.
func LoggingMiddleware(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			entry := logger.WithFields(logrus.Fields{
				"method":  c.Request().Method,
				"uri":     c.Request().URL.Path,
				"status":  c.Response().Status,
				"latency": time.Since(start),
			})
			if err != nil {
				entry = entry.WithField("error", err.Error())
			}
			entry.Debug("Fake server request")

			return err
		}
	}
}
