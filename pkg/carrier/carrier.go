package carrier

import (
	"context"

	"github.com/parcelmesh/ups-adapter/pkg/model"
)

// RateProvider is the carrier-agnostic rating contract. Each carrier
// integration implements it against its own wire format and auth scheme.
type RateProvider interface {
	// Name returns the carrier identifier, e.g. "ups".
	Name() string

	// GetRates fetches shipping rates for a canonical rate request.
	// Failures are always classified *carrier.Error values.
	GetRates(ctx context.Context, req model.RateRequest) (*model.RateResponse, error)

	// SupportsRoute reports whether both country codes are serviced.
	// Pure and case-insensitive.
	SupportsRoute(originCountry, destCountry string) bool

	// HealthCheck reports whether the carrier is reachable and credentials
	// are accepted. Never returns an error: any failure is false.
	HealthCheck(ctx context.Context) bool
}
