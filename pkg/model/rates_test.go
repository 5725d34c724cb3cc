package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() RateRequest {
	return RateRequest{
		Origin: Address{
			City:        "New York",
			PostalCode:  "10001",
			CountryCode: "US",
		},
		Destination: Address{
			City:        "Los Angeles",
			PostalCode:  "90001",
			CountryCode: "US",
		},
		Packages: []Package{{Weight: 5.5}},
	}
}

func TestRateRequest_Validate_WellFormed(t *testing.T) {
	assert.Empty(t, validRequest().Validate())
}

func TestRateRequest_Validate_RequiresPackages(t *testing.T) {
	req := validRequest()
	req.Packages = nil

	issues := req.Validate()

	require.Len(t, issues, 1)
	assert.Equal(t, "packages", issues[0].Path)
}

func TestRateRequest_Validate_WeightBounds(t *testing.T) {
	req := validRequest()
	req.Packages = []Package{{Weight: 0}, {Weight: -2}, {Weight: 150.5}}

	issues := req.Validate()

	require.Len(t, issues, 3)
	assert.Equal(t, "packages[0].weight", issues[0].Path)
	assert.Equal(t, "packages[1].weight", issues[1].Path)
	assert.Equal(t, "packages[2].weight", issues[2].Path)
	assert.Contains(t, issues[2].Message, "150")
}

func TestRateRequest_Validate_MaxWeightIsInclusive(t *testing.T) {
	req := validRequest()
	req.Packages = []Package{{Weight: MaxPackageWeight}}

	assert.Empty(t, req.Validate())
}

func TestRateRequest_Validate_Dimensions(t *testing.T) {
	req := validRequest()
	req.Packages = []Package{
		{Weight: 5, Dimensions: &Dimensions{Length: 12, Width: 0, Height: 4}},
	}

	issues := req.Validate()

	require.Len(t, issues, 1)
	assert.Equal(t, "packages[0].dimensions", issues[0].Path)
}

func TestRateRequest_Validate_Addresses(t *testing.T) {
	req := validRequest()
	req.Origin.City = ""
	req.Destination.PostalCode = ""
	req.Destination.CountryCode = "USA"

	issues := req.Validate()

	require.Len(t, issues, 3)
	assert.Equal(t, "origin.city", issues[0].Path)
	assert.Equal(t, "destination.postal_code", issues[1].Path)
	assert.Equal(t, "destination.country_code", issues[2].Path)
}

func TestRateRequest_Validate_CollectsAllViolations(t *testing.T) {
	req := RateRequest{}

	issues := req.Validate()

	// Both addresses empty plus no packages.
	assert.Len(t, issues, 7)
}
