package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all HTTP routes on the Fiber app.
func RegisterRoutes(app *fiber.App, handler *RatesHandler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check: token acquisition against the carrier only.
	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if !handler.service.HealthCheck(healthCtx) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded",
				"checks": fiber.Map{"ups_auth": "failed"},
			})
		}
		return c.JSON(fiber.Map{
			"status": "ok",
			"checks": fiber.Map{"ups_auth": "ok"},
		})
	})

	// API routes
	v1 := app.Group("/api/v1")
	v1.Post("/rates", handler.GetRatesHandler)
	v1.Get("/routes/supported", handler.SupportedRouteHandler)
}
