package ups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parcelmesh/ups-adapter/internal/httpclient"
	"github.com/parcelmesh/ups-adapter/internal/publisher"
	"github.com/parcelmesh/ups-adapter/pkg/carrier"
	"github.com/parcelmesh/ups-adapter/pkg/config"
	"github.com/parcelmesh/ups-adapter/pkg/model"
)

// carrierName tags classified errors and log events from this integration.
const carrierName = "ups"

// Service orchestrates UPS rating calls: request validation, token
// acquisition, wire mapping, the remote call with its single auth retry,
// and error classification. It holds no per-call state.
type Service struct {
	logger    *zap.Logger
	cfg       config.Config
	client    *Client
	tokens    *TokenCoordinator
	mapper    *Mapper
	publisher *publisher.Publisher
	supported map[string]struct{}
}

var _ carrier.RateProvider = (*Service)(nil)

// NewService constructs a fully wired UPS rating service.
// pub may be nil when event publishing is disabled.
func NewService(
	logger *zap.Logger,
	cfg config.Config,
	client *Client,
	tokens *TokenCoordinator,
	pub *publisher.Publisher,
) *Service {
	supported := make(map[string]struct{}, len(cfg.SupportedCountries))
	for _, c := range cfg.SupportedCountries {
		supported[strings.ToUpper(c)] = struct{}{}
	}
	return &Service{
		logger:    logger,
		cfg:       cfg,
		client:    client,
		tokens:    tokens,
		mapper:    NewMapper(),
		publisher: pub,
		supported: supported,
	}
}

// Name returns the carrier identifier.
func (s *Service) Name() string { return carrierName }

// GetRates fetches shipping rates for a canonical rate request.
func (s *Service) GetRates(ctx context.Context, req model.RateRequest) (*model.RateResponse, error) {
	if issues := req.Validate(); len(issues) > 0 {
		return nil, carrier.NewValidationError(carrierName, issues)
	}

	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	s.logger.Info("ups.rate.start",
		zap.String("correlation_id", correlationID),
		zap.String("origin", req.Origin.CountryCode),
		zap.String("destination", req.Destination.CountryCode),
		zap.Int("packages", len(req.Packages)),
		zap.String("service_code", req.ServiceCode))

	// Token acquisition failures propagate as-is; the orchestrator never
	// retries them.
	token, err := s.tokens.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	wireReq := s.mapper.ToUPSRateRequest(req, s.cfg.UPSAccountNumber, correlationID)

	wireResp, err := s.client.Rate(ctx, token, correlationID, wireReq)
	if err != nil {
		if !isAuthRejection(err) {
			return nil, s.classifyRateError(err, correlationID)
		}

		// Exactly one retry, only on 401/403: force a fresh token and
		// repeat the identical wire request. A second failure of any kind
		// propagates without another attempt.
		s.logger.Warn("ups.rate.auth_rejected",
			zap.String("correlation_id", correlationID))

		token, err = s.tokens.ForceRefresh(ctx)
		if err != nil {
			return nil, err
		}
		wireResp, err = s.client.Rate(ctx, token, correlationID, wireReq)
		if err != nil {
			return nil, s.classifyRateError(err, correlationID)
		}
	}

	// A success body without a rated-shipment list is a contract violation
	// by the server, not a transient condition. An empty list is fine.
	if wireResp.RateResponse.RatedShipment == nil {
		return nil, carrier.NewResponseParsingError(carrierName,
			"rating response missing rated shipments", nil).WithCorrelationID(correlationID)
	}

	domainResp, err := s.mapper.FromUPSRateResponse(wireResp, correlationID, req)
	if err != nil {
		return nil, carrier.NewResponseParsingError(carrierName,
			"malformed rated shipment", err).WithCorrelationID(correlationID)
	}

	s.logger.Info("ups.rate.success",
		zap.String("correlation_id", correlationID),
		zap.Int("quotes", len(domainResp.Quotes)))

	if s.publisher != nil {
		if err := s.publisher.PublishRateQuoted(ctx, domainResp); err != nil {
			s.logger.Warn("ups.rate.publish_failed",
				zap.String("correlation_id", correlationID),
				zap.Error(err))
		}
	}

	return domainResp, nil
}

// SupportsRoute reports whether both country codes are in the configured
// allow-list. Case-insensitive, no side effects.
func (s *Service) SupportsRoute(originCountry, destCountry string) bool {
	_, origin := s.supported[strings.ToUpper(originCountry)]
	_, dest := s.supported[strings.ToUpper(destCountry)]
	return origin && dest
}

// HealthCheck attempts token acquisition only. Any failure is swallowed
// and reported as false.
func (s *Service) HealthCheck(ctx context.Context) bool {
	if _, err := s.tokens.GetAccessToken(ctx); err != nil {
		s.logger.Warn("ups.health_check_failed", zap.Error(err))
		return false
	}
	return true
}

// TokenState exposes the coordinator's cache state for introspection.
func (s *Service) TokenState() TokenState {
	return s.tokens.TokenState()
}

// isAuthRejection reports whether err is a rating-call HTTP 401 or 403,
// the only failures eligible for the forced-refresh retry.
func isAuthRejection(err error) bool {
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusForbidden
}

// classifyRateError maps a rating-call failure to its classified error.
func (s *Service) classifyRateError(err error, correlationID string) error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Status == http.StatusTooManyRequests {
			return carrier.NewRateLimitError(carrierName, retryAfterSeconds(httpErr)).
				WithCorrelationID(correlationID)
		}
		code, msg := upsErrorDetail(httpErr.Body)
		return carrier.NewCarrierAPIError(carrierName, httpErr.Status, code, msg).
			WithCorrelationID(correlationID)
	}

	if errors.Is(err, httpclient.ErrDecode) {
		return carrier.NewResponseParsingError(carrierName, "undecodable rating response", err).
			WithCorrelationID(correlationID)
	}

	return carrier.ClassifyTransport(carrierName, err, s.cfg.RequestTimeout).
		WithCorrelationID(correlationID)
}

// retryAfterSeconds extracts the wait hint from the carrier body or the
// Retry-After header; nil when neither supplies one.
func retryAfterSeconds(httpErr *httpclient.HTTPError) *int {
	var errResp UPSErrorResponse
	_ = json.Unmarshal(httpErr.Body, &errResp)
	if secs, err := strconv.Atoi(errResp.Response.RetryAfter); err == nil && secs > 0 {
		return &secs
	}
	if secs, err := strconv.Atoi(httpErr.Header.Get("Retry-After")); err == nil && secs > 0 {
		return &secs
	}
	return nil
}

// upsErrorDetail pulls the first carrier-supplied error code/message out of
// an error body, falling back to the raw body text.
func upsErrorDetail(body []byte) (code, message string) {
	var errResp UPSErrorResponse
	_ = json.Unmarshal(body, &errResp)
	if len(errResp.Response.Errors) > 0 {
		detail := errResp.Response.Errors[0]
		return detail.Code, detail.Message
	}
	return "", strings.TrimSpace(string(body))
}
