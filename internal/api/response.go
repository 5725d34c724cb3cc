package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/parcelmesh/ups-adapter/pkg/carrier"
)

// errorResponse maps a classified carrier error to an HTTP status and JSON
// body. Unclassified errors (there should be none past the service
// boundary) map to 500.
func errorResponse(err error) (int, fiber.Map) {
	ce, ok := carrier.As(err)
	if !ok {
		return fiber.StatusInternalServerError, fiber.Map{"error": err.Error()}
	}

	body := fiber.Map{
		"error":     ce.Message,
		"code":      string(ce.Code),
		"carrier":   ce.Carrier,
		"retryable": ce.Retryable,
	}
	if ce.CorrelationID != "" {
		body["correlation_id"] = ce.CorrelationID
	}

	switch ce.Code {
	case carrier.CodeValidation:
		body["issues"] = ce.Issues
		return fiber.StatusBadRequest, body
	case carrier.CodeRateLimit:
		if ce.RetryAfter != nil {
			body["retry_after_seconds"] = *ce.RetryAfter
		}
		return fiber.StatusTooManyRequests, body
	case carrier.CodeTimeout:
		return fiber.StatusGatewayTimeout, body
	case carrier.CodeInvalidCredentials,
		carrier.CodeAuthentication,
		carrier.CodeNetwork,
		carrier.CodeCarrierAPI,
		carrier.CodeResponseParsing:
		return fiber.StatusBadGateway, body
	default:
		return fiber.StatusInternalServerError, body
	}
}
