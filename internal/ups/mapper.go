package ups

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/parcelmesh/ups-adapter/pkg/model"
)

const (
	requestOptionShop = "Shop" // rate every available service
	requestOptionRate = "Rate" // rate the one named service

	packagingTypeCode    = "02" // customer-supplied package
	weightUnitCode       = "LBS"
	defaultDimensionUnit = "IN"

	// defaultServiceDescription is used when UPS omits a service description.
	defaultServiceDescription = "UPS Service"
)

//
// ────────────────────────────────────────────────
//   Mapper – Converts between UPS and Canonical
// ────────────────────────────────────────────────
//

// Mapper translates between UPS wire payloads and the canonical rating
// domain model. Pure functions, no I/O.
type Mapper struct{}

// NewMapper constructs a Mapper instance.
func NewMapper() *Mapper { return &Mapper{} }

//
// ────────────────────────────────────────────────
//   CANONICAL → UPS : Rate Request
// ────────────────────────────────────────────────
//

// ToUPSRateRequest converts a canonical RateRequest to the UPS wire format.
// customerContext, when non-empty, is carried verbatim in the transaction
// reference. Negotiated-rate pricing is always requested.
func (m *Mapper) ToUPSRateRequest(r model.RateRequest, accountNumber, customerContext string) *UPSRateRequest {
	option := requestOptionShop
	var service *UPSService
	if r.ServiceCode != "" {
		option = requestOptionRate
		service = &UPSService{Code: r.ServiceCode}
	}

	var txRef *TransactionReference
	if customerContext != "" {
		txRef = &TransactionReference{CustomerContext: customerContext}
	}

	packages := make([]UPSPackage, 0, len(r.Packages))
	for _, p := range r.Packages {
		packages = append(packages, toUPSPackage(p))
	}

	return &UPSRateRequest{
		RateRequest: RateRequestBody{
			Request: RequestSection{
				RequestOption:        option,
				TransactionReference: txRef,
			},
			Shipment: Shipment{
				Shipper: Shipper{
					Name:          r.ShipperName,
					ShipperNumber: accountNumber,
					Address:       toUPSAddress(r.Origin),
				},
				ShipFrom: ShipParty{Name: r.Origin.Name, Address: toUPSAddress(r.Origin)},
				ShipTo:   ShipParty{Name: r.Destination.Name, Address: toUPSAddress(r.Destination)},
				Service:  service,
				ShipmentRatingOptions: ShipmentRatingOptions{
					NegotiatedRatesIndicator: "Y",
				},
				Package: packages,
			},
		},
	}
}

func toUPSAddress(a model.Address) UPSAddress {
	return UPSAddress{
		AddressLine:       a.AddressLines,
		City:              a.City,
		StateProvinceCode: a.StateCode,
		PostalCode:        a.PostalCode,
		CountryCode:       a.CountryCode,
	}
}

func toUPSPackage(p model.Package) UPSPackage {
	pkg := UPSPackage{
		PackagingType: CodeDescription{Code: packagingTypeCode},
		PackageWeight: PackageWeight{
			UnitOfMeasurement: CodeDescription{Code: weightUnitCode},
			Weight:            strconv.FormatFloat(p.Weight, 'f', 1, 64),
		},
	}
	if d := p.Dimensions; d != nil {
		unit := d.Unit
		if unit == "" {
			unit = defaultDimensionUnit
		}
		pkg.Dimensions = &UPSDimensions{
			UnitOfMeasurement: CodeDescription{Code: unit},
			Length:            formatDimension(d.Length),
			Width:             formatDimension(d.Width),
			Height:            formatDimension(d.Height),
		}
	}
	return pkg
}

// formatDimension renders a dimension as a whole number when possible,
// otherwise with its decimal part intact.
func formatDimension(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

//
// ────────────────────────────────────────────────
//   UPS → CANONICAL : Rate Response
// ────────────────────────────────────────────────
//

// FromUPSRateResponse converts a UPS rating response to the canonical
// RateResponse, one quote per rated shipment. An empty rated-shipment list
// maps to an empty quote list; emptiness is a valid pass-through value
// here, never an error. The only failure mode is an unparsable monetary
// amount.
func (m *Mapper) FromUPSRateResponse(resp *UPSRateResponse, correlationID string, _ model.RateRequest) (*model.RateResponse, error) {
	quotes := make([]model.RateQuote, 0, len(resp.RateResponse.RatedShipment))

	for i, rs := range resp.RateResponse.RatedShipment {
		quote, err := toRateQuote(rs)
		if err != nil {
			return nil, fmt.Errorf("rated shipment %d: %w", i, err)
		}
		quotes = append(quotes, quote)
	}

	return &model.RateResponse{
		Carrier:       "UPS",
		CorrelationID: correlationID,
		Quotes:        quotes,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func toRateQuote(rs RatedShipment) (model.RateQuote, error) {
	serviceLevel := rs.Service.Description
	if serviceLevel == "" {
		serviceLevel = defaultServiceDescription
	}

	// Negotiated total takes precedence over the published total when present.
	totalCharge := rs.TotalCharges
	if rs.NegotiatedRateCharges != nil && rs.NegotiatedRateCharges.TotalCharge.MonetaryValue != "" {
		totalCharge = rs.NegotiatedRateCharges.TotalCharge
	}
	total, err := parseCharge(totalCharge)
	if err != nil {
		return model.RateQuote{}, fmt.Errorf("total charges: %w", err)
	}

	quote := model.RateQuote{
		ServiceLevel: serviceLevel,
		ServiceCode:  rs.Service.Code,
		TotalCost:    total,
	}

	if rs.TransportationCharges != nil {
		transport, err := parseCharge(*rs.TransportationCharges)
		if err != nil {
			return model.RateQuote{}, fmt.Errorf("transportation charges: %w", err)
		}
		quote.TransportationCost = &transport
	}

	if rs.BillingWeight != nil {
		if w, err := strconv.ParseFloat(rs.BillingWeight.Weight, 64); err == nil {
			quote.BillingWeight = &w
		}
	}

	// Transit time is carried only when present and numeric.
	if gd := rs.GuaranteedDelivery; gd != nil && gd.BusinessDaysInTransit != "" {
		if days, err := strconv.Atoi(gd.BusinessDaysInTransit); err == nil {
			quote.TransitDays = &days
		}
	}

	for _, alert := range rs.RatedShipmentAlert {
		if alert.Description != "" {
			quote.Warnings = append(quote.Warnings, alert.Description)
		}
	}

	return quote, nil
}

func parseCharge(c Charge) (model.Money, error) {
	amount, err := decimal.NewFromString(c.MonetaryValue)
	if err != nil {
		return model.Money{}, fmt.Errorf("parse monetary value %q: %w", c.MonetaryValue, err)
	}
	return model.Money{Amount: amount, Currency: c.CurrencyCode}, nil
}
