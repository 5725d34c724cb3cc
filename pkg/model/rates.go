package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

//
// ────────────────────────────────────────────────
//   Canonical Rating Domain Model
// ────────────────────────────────────────────────
//

// Address is a carrier-agnostic postal address.
type Address struct {
	Name         string   `json:"name,omitempty"`
	AddressLines []string `json:"address_lines,omitempty"`
	City         string   `json:"city"`
	StateCode    string   `json:"state_code,omitempty"`
	PostalCode   string   `json:"postal_code"`
	CountryCode  string   `json:"country_code"` // ISO 3166-1 alpha-2, e.g. "US"
}

// Dimensions describes optional package dimensions in a single unit.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit,omitempty"` // "IN" or "CM", defaults to "IN"
}

// Package is one physical parcel in a rate request.
type Package struct {
	Weight     float64     `json:"weight"` // pounds
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

// RateRequest is the canonical request for shipping rates.
// ServiceCode is optional: when set, only that service is rated; when empty,
// all available services are shopped.
type RateRequest struct {
	Origin      Address   `json:"origin"`
	Destination Address   `json:"destination"`
	ShipperName string    `json:"shipper_name,omitempty"`
	Packages    []Package `json:"packages"`
	ServiceCode string    `json:"service_code,omitempty"`

	// CorrelationID is an optional caller-supplied tracing tag threaded
	// through the carrier request; one is generated when empty.
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Money is a currency-tagged decimal amount.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"` // ISO 4217, e.g. "USD"
}

// RateQuote is one priced service option returned by a carrier.
type RateQuote struct {
	ServiceLevel       string   `json:"service_level"`
	ServiceCode        string   `json:"service_code"`
	TotalCost          Money    `json:"total_cost"`
	TransportationCost *Money   `json:"transportation_cost,omitempty"`
	BillingWeight      *float64 `json:"billing_weight,omitempty"`
	TransitDays        *int     `json:"transit_days,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
}

// RateResponse is the canonical rating result.
type RateResponse struct {
	Carrier       string      `json:"carrier"`
	CorrelationID string      `json:"correlation_id"`
	Quotes        []RateQuote `json:"quotes"`
	Timestamp     time.Time   `json:"timestamp"`
}

//
// ────────────────────────────────────────────────
//   Validation
// ────────────────────────────────────────────────
//

// MaxPackageWeight is the heaviest single package accepted, in pounds.
const MaxPackageWeight = 150.0

// Issue is one violated constraint found during request validation.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Validate checks the structural constraints of a rate request and returns
// one issue per violation. An empty slice means the request is well formed.
func (r RateRequest) Validate() []Issue {
	var issues []Issue

	issues = append(issues, r.Origin.validate("origin")...)
	issues = append(issues, r.Destination.validate("destination")...)

	if len(r.Packages) == 0 {
		issues = append(issues, Issue{Path: "packages", Message: "at least one package is required"})
	}
	for i, p := range r.Packages {
		path := fmt.Sprintf("packages[%d]", i)
		if p.Weight <= 0 {
			issues = append(issues, Issue{Path: path + ".weight", Message: "weight must be positive"})
		} else if p.Weight > MaxPackageWeight {
			issues = append(issues, Issue{
				Path:    path + ".weight",
				Message: fmt.Sprintf("weight exceeds maximum of %.0f lbs", MaxPackageWeight),
			})
		}
		if d := p.Dimensions; d != nil {
			if d.Length <= 0 || d.Width <= 0 || d.Height <= 0 {
				issues = append(issues, Issue{Path: path + ".dimensions", Message: "dimensions must be positive"})
			}
		}
	}

	return issues
}

func (a Address) validate(path string) []Issue {
	var issues []Issue
	if a.City == "" {
		issues = append(issues, Issue{Path: path + ".city", Message: "city is required"})
	}
	if a.PostalCode == "" {
		issues = append(issues, Issue{Path: path + ".postal_code", Message: "postal code is required"})
	}
	if len(a.CountryCode) != 2 {
		issues = append(issues, Issue{Path: path + ".country_code", Message: "country code must be 2 letters"})
	}
	return issues
}
