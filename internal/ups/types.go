package ups

//
// ────────────────────────────────────────────────
//   OAuth Token Types
// ────────────────────────────────────────────────
//

// UPSTokenResponse is the response from the UPS OAuth token endpoint.
// expires_in arrives as a decimal string of seconds.
type UPSTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   string `json:"expires_in"`
	IssuedAt    string `json:"issued_at"`
	Status      string `json:"status"`
}

//
// ────────────────────────────────────────────────
//   Rating API: Request
// ────────────────────────────────────────────────
//

// UPSRateRequest is the payload for POST /api/rating/v1/rates.
type UPSRateRequest struct {
	RateRequest RateRequestBody `json:"RateRequest"`
}

// RateRequestBody holds the request options and shipment detail.
type RateRequestBody struct {
	Request  RequestSection `json:"Request"`
	Shipment Shipment       `json:"Shipment"`
}

// RequestSection selects the rating mode: "Rate" for a single named
// service, "Shop" to rate all available services.
type RequestSection struct {
	RequestOption        string                `json:"RequestOption"`
	TransactionReference *TransactionReference `json:"TransactionReference,omitempty"`
}

// TransactionReference threads a caller-supplied correlation tag through
// the request/response pair.
type TransactionReference struct {
	CustomerContext string `json:"CustomerContext,omitempty"`
}

// Shipment describes the parties, packages, and rating options.
type Shipment struct {
	Shipper               Shipper               `json:"Shipper"`
	ShipTo                ShipParty             `json:"ShipTo"`
	ShipFrom              ShipParty             `json:"ShipFrom"`
	Service               *UPSService           `json:"Service,omitempty"`
	ShipmentRatingOptions ShipmentRatingOptions `json:"ShipmentRatingOptions"`
	Package               []UPSPackage          `json:"Package"`
}

// Shipper is the account holder originating the shipment.
type Shipper struct {
	Name          string     `json:"Name,omitempty"`
	ShipperNumber string     `json:"ShipperNumber"`
	Address       UPSAddress `json:"Address"`
}

// ShipParty is a ship-to or ship-from party.
type ShipParty struct {
	Name    string     `json:"Name,omitempty"`
	Address UPSAddress `json:"Address"`
}

// UPSAddress is the wire representation of a postal address.
type UPSAddress struct {
	AddressLine       []string `json:"AddressLine,omitempty"`
	City              string   `json:"City"`
	StateProvinceCode string   `json:"StateProvinceCode,omitempty"`
	PostalCode        string   `json:"PostalCode"`
	CountryCode       string   `json:"CountryCode"`
}

// UPSService names a specific UPS service to rate (RequestOption "Rate").
type UPSService struct {
	Code        string `json:"Code"`
	Description string `json:"Description,omitempty"`
}

// ShipmentRatingOptions carries the negotiated-rates flag.
type ShipmentRatingOptions struct {
	NegotiatedRatesIndicator string `json:"NegotiatedRatesIndicator"`
}

// UPSPackage is one parcel entry in the wire request.
type UPSPackage struct {
	PackagingType CodeDescription `json:"PackagingType"`
	Dimensions    *UPSDimensions  `json:"Dimensions,omitempty"`
	PackageWeight PackageWeight   `json:"PackageWeight"`
}

// CodeDescription is the ubiquitous UPS code/description pair.
type CodeDescription struct {
	Code        string `json:"Code"`
	Description string `json:"Description,omitempty"`
}

// UPSDimensions renders package dimensions as decimal strings with a unit.
type UPSDimensions struct {
	UnitOfMeasurement CodeDescription `json:"UnitOfMeasurement"`
	Length            string          `json:"Length"`
	Width             string          `json:"Width"`
	Height            string          `json:"Height"`
}

// PackageWeight renders a weight as a decimal string with a unit.
type PackageWeight struct {
	UnitOfMeasurement CodeDescription `json:"UnitOfMeasurement"`
	Weight            string          `json:"Weight"`
}

//
// ────────────────────────────────────────────────
//   Rating API: Response
// ────────────────────────────────────────────────
//

// UPSRateResponse is the response from POST /api/rating/v1/rates.
type UPSRateResponse struct {
	RateResponse RateResponseBody `json:"RateResponse"`
}

// RateResponseBody holds the response status block and rated shipments.
// RatedShipment is nil when the key is absent from the body, which the
// orchestrator treats as a contract violation; an empty array is a valid
// zero-quote result.
type RateResponseBody struct {
	Response      ResponseSection `json:"Response"`
	RatedShipment []RatedShipment `json:"RatedShipment"`
}

// ResponseSection is the status block of a rating response.
type ResponseSection struct {
	ResponseStatus       CodeDescription       `json:"ResponseStatus"`
	Alert                []CodeDescription     `json:"Alert,omitempty"`
	TransactionReference *TransactionReference `json:"TransactionReference,omitempty"`
}

// RatedShipment is one priced service option.
type RatedShipment struct {
	Service               CodeDescription        `json:"Service"`
	RatedShipmentAlert    []CodeDescription      `json:"RatedShipmentAlert,omitempty"`
	BillingWeight         *PackageWeight         `json:"BillingWeight,omitempty"`
	TransportationCharges *Charge                `json:"TransportationCharges,omitempty"`
	ServiceOptionsCharges *Charge                `json:"ServiceOptionsCharges,omitempty"`
	TotalCharges          Charge                 `json:"TotalCharges"`
	NegotiatedRateCharges *NegotiatedRateCharges `json:"NegotiatedRateCharges,omitempty"`
	GuaranteedDelivery    *GuaranteedDelivery    `json:"GuaranteedDelivery,omitempty"`
}

// Charge is a currency code plus decimal-string amount.
type Charge struct {
	CurrencyCode  string `json:"CurrencyCode"`
	MonetaryValue string `json:"MonetaryValue"`
}

// NegotiatedRateCharges carries the account-specific discounted total.
type NegotiatedRateCharges struct {
	TotalCharge Charge `json:"TotalCharge"`
}

// GuaranteedDelivery is the optional transit-time estimate.
type GuaranteedDelivery struct {
	BusinessDaysInTransit string `json:"BusinessDaysInTransit,omitempty"`
	DeliveryByTime        string `json:"DeliveryByTime,omitempty"`
}

//
// ────────────────────────────────────────────────
//   Error Response
// ────────────────────────────────────────────────
//

// UPSErrorResponse is the error envelope returned on non-2xx statuses.
type UPSErrorResponse struct {
	Response UPSErrorBody `json:"response"`
}

// UPSErrorBody lists the carrier-supplied error details.
type UPSErrorBody struct {
	Errors     []UPSErrorDetail `json:"errors"`
	RetryAfter string           `json:"retryAfter,omitempty"`
}

// UPSErrorDetail is one carrier error code/message pair.
type UPSErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
