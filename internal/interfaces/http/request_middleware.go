package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// HTTPObserver recibe una observación por petición (implementado por metrics.Metrics).
type HTTPObserver interface {
	ObserveHTTP(method, path string, status int, elapsed time.Duration)
}

// RequestMiddleware registra cada petición en el log y, si obs no es nil, en las métricas.
// La ruta se etiqueta con el patrón (/api/invoices/:number) para no disparar la cardinalidad.
func RequestMiddleware(log zerolog.Logger, obs HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el ErrorHandler fija el status definitivo
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		path := c.Route().Path

		if obs != nil {
			obs.ObserveHTTP(c.Method(), path, status, elapsed)
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Str("ip", c.IP()).
			Msg("http")
		return nil
	}
}
