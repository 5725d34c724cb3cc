package api

import (
	"github.com/parcelmesh/ups-adapter/pkg/model"
)

// RateCreateRequest is the HTTP payload for POST /api/v1/rates.
type RateCreateRequest struct {
	Origin        model.Address   `json:"origin"`
	Destination   model.Address   `json:"destination"`
	ShipperName   string          `json:"shipper_name,omitempty"`
	Packages      []model.Package `json:"packages"`
	ServiceCode   string          `json:"service_code,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// toRateRequest converts an API request to a canonical RateRequest.
// Full structural validation happens in the rating service.
func toRateRequest(req RateCreateRequest) model.RateRequest {
	return model.RateRequest{
		Origin:        req.Origin,
		Destination:   req.Destination,
		ShipperName:   req.ShipperName,
		Packages:      req.Packages,
		ServiceCode:   req.ServiceCode,
		CorrelationID: req.CorrelationID,
	}
}
