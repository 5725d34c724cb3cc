package ups

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/parcelmesh/ups-adapter/pkg/config"
	"github.com/parcelmesh/ups-adapter/pkg/model"
)

// writeJSON encodes v as JSON into w.
func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic("test helper writeJSON: " + err.Error())
	}
}

// testConfig returns a Config pointing both UPS endpoints at serverURL.
func testConfig(serverURL string) *config.Config {
	return &config.Config{
		UPSClientID:        "test-client-id",
		UPSClientSecret:    "test-secret",
		UPSAccountNumber:   "A1B2C3",
		UPSBaseURL:         serverURL,
		UPSTokenURL:        serverURL + "/security/v1/oauth/token",
		RequestTimeout:     5 * time.Second,
		SupportedCountries: []string{"US", "CA", "MX"},
	}
}

// seedCredential pre-populates the coordinator cache so tests can control
// the expiry without hitting the token endpoint.
func seedCredential(tm *TokenCoordinator, token string, expiresAt time.Time) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.cred = &credential{accessToken: token, tokenType: "Bearer", expiresAt: expiresAt}
}

// newMockUPSServer routes the token and rating endpoints to the supplied
// handlers. A nil tokenHandler serves a static one-hour "test-token".
func newMockUPSServer(t *testing.T, tokenHandler, rateHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/security/v1/oauth/token":
			if tokenHandler != nil {
				tokenHandler(w, r)
				return
			}
			writeJSON(w, UPSTokenResponse{AccessToken: "test-token", TokenType: "Bearer", ExpiresIn: "3600"})

		case r.Method == http.MethodPost && r.URL.Path == "/api/rating/v1/rates":
			if rateHandler != nil {
				rateHandler(w, r)
				return
			}
			w.WriteHeader(http.StatusNotFound)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// newTestService wires a Service against the given mock server.
func newTestService(t *testing.T, serverURL string) *Service {
	t.Helper()
	logger := zap.NewNop()
	cfg := testConfig(serverURL)
	tokens := NewTokenCoordinator(logger, cfg)
	client := NewClient(logger, nil, cfg)
	return NewService(logger, *cfg, client, tokens, nil)
}

// testRateRequest builds a well-formed NY -> LA shop request with one package.
func testRateRequest() model.RateRequest {
	return model.RateRequest{
		Origin: model.Address{
			Name:        "Warehouse East",
			City:        "New York",
			StateCode:   "NY",
			PostalCode:  "10001",
			CountryCode: "US",
		},
		Destination: model.Address{
			Name:        "Customer",
			City:        "Los Angeles",
			StateCode:   "CA",
			PostalCode:  "90001",
			CountryCode: "US",
		},
		ShipperName: "ParcelMesh Test",
		Packages:    []model.Package{{Weight: 5.5}},
	}
}

// shopRateResponse is a canned three-service rating result.
func shopRateResponse() UPSRateResponse {
	return UPSRateResponse{
		RateResponse: RateResponseBody{
			Response: ResponseSection{
				ResponseStatus: CodeDescription{Code: "1", Description: "Success"},
			},
			RatedShipment: []RatedShipment{
				{
					Service:      CodeDescription{Code: "03", Description: "UPS Ground"},
					TotalCharges: Charge{CurrencyCode: "USD", MonetaryValue: "12.50"},
					GuaranteedDelivery: &GuaranteedDelivery{
						BusinessDaysInTransit: "4",
					},
				},
				{
					Service:      CodeDescription{Code: "02", Description: "UPS 2nd Day Air"},
					TotalCharges: Charge{CurrencyCode: "USD", MonetaryValue: "35.75"},
					GuaranteedDelivery: &GuaranteedDelivery{
						BusinessDaysInTransit: "2",
					},
				},
				{
					Service:      CodeDescription{Code: "01", Description: "UPS Next Day Air"},
					TotalCharges: Charge{CurrencyCode: "USD", MonetaryValue: "58.25"},
					GuaranteedDelivery: &GuaranteedDelivery{
						BusinessDaysInTransit: "1",
					},
				},
			},
		},
	}
}
