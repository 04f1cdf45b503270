package requestlogger

import (
	"net/http"
	"time"

	"github.com/assetdeal/registry-network/pkg/logger"
	"github.com/assetdeal/registry-network/pkg/logger/slogx"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	Disable bool `mapstructure:"disable"` // Disable logger level `INFO`
}

// New logs every completed request with method, route, status and latency.
func New(config Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		attrs := []any{
			slogx.String("event", "api_request"),
			slogx.String("method", c.Method()),
			slogx.String("path", c.Path()),
			slogx.String("route", c.Route().Path),
			slogx.String("ip", c.IP()),
			slogx.Int("status", status),
			slogx.Duration("latency", latency),
		}

		if err != nil || status >= http.StatusInternalServerError {
			logErr := err
			if logErr == nil {
				logErr = fiber.NewError(status)
			}
			logger.ErrorContext(c.UserContext(), "Request Completed", logErr, attrs...)
			return errors.WithStack(err)
		}
		if !config.Disable {
			logger.InfoContext(c.UserContext(), "Request Completed", attrs...)
		}
		return nil
	}
}
