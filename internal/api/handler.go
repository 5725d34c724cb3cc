package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/parcelmesh/ups-adapter/pkg/model"
)

// RateService defines the rating operations used by the handler.
type RateService interface {
	GetRates(ctx context.Context, req model.RateRequest) (*model.RateResponse, error)
	SupportsRoute(originCountry, destCountry string) bool
	HealthCheck(ctx context.Context) bool
}

// RatesHandler handles HTTP API requests for rating operations.
type RatesHandler struct {
	logger  *zap.Logger
	service RateService
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(logger *zap.Logger, service RateService) *RatesHandler {
	return &RatesHandler{
		logger:  logger,
		service: service,
	}
}

// GetRatesHandler handles rate quote requests.
func (h *RatesHandler) GetRatesHandler(c *fiber.Ctx) error {
	var req RateCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	resp, err := h.service.GetRates(c.Context(), toRateRequest(req))
	if err != nil {
		h.logger.Error("api.get_rates.failed",
			zap.String("correlation_id", req.CorrelationID),
			zap.Error(err))
		status, body := errorResponse(err)
		return c.Status(status).JSON(body)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// SupportedRouteHandler reports whether a route is serviced.
// GET /api/v1/routes/supported?origin=US&destination=CA
func (h *RatesHandler) SupportedRouteHandler(c *fiber.Ctx) error {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "origin and destination query parameters are required",
		})
	}

	return c.JSON(fiber.Map{
		"origin":      origin,
		"destination": destination,
		"supported":   h.service.SupportsRoute(origin, destination),
	})
}
