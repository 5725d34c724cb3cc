package ups

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/parcelmesh/ups-adapter/internal/httpclient"
	"github.com/parcelmesh/ups-adapter/internal/rate"
	"github.com/parcelmesh/ups-adapter/pkg/config"
)

const (
	// ratingPath is the fixed rating endpoint; the rating mode travels in
	// the request body, not the path.
	ratingPath = "/api/rating/v1/rates"

	// transactionSource identifies this integration to UPS.
	transactionSource = "parcelmesh"
)

// Client wraps low-level HTTP communication with the UPS rating API.
// Token acquisition stays with the service layer: the bearer token is
// supplied per call so the auth-retry policy can swap it out.
type Client struct {
	logger        *zap.Logger
	exec          *httpclient.Executor
	baseURL       string
	accountNumber string
}

// NewClient constructs a new UPS HTTP client.
func NewClient(logger *zap.Logger, rateMgr *rate.Manager, cfg *config.Config) *Client {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	return &Client{
		logger:        logger,
		exec:          httpclient.New(logger, rateMgr, httpClient, "ups"),
		baseURL:       cfg.UPSBaseURL,
		accountNumber: cfg.UPSAccountNumber,
	}
}

// Rate submits a rating request with the given bearer token.
// POST /api/rating/v1/rates
func (c *Client) Rate(ctx context.Context, token, correlationID string, req *UPSRateRequest) (*UPSRateResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ratingPath, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("transId", correlationID)
	httpReq.Header.Set("transactionSrc", transactionSource)

	var resp UPSRateResponse
	if err := c.exec.DoJSON(ctx, httpReq, c.accountNumber, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
