package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/parcelmesh/ups-adapter/internal/metrics"
	"github.com/parcelmesh/ups-adapter/internal/rate"
)

// ErrDecode wraps JSON decode failures on otherwise successful responses so
// callers can distinguish a broken body from a transport failure.
var ErrDecode = errors.New("response decode failed")

// HTTPError is a non-2xx response from the carrier, preserved whole so the
// caller can classify it by status and inspect carrier-supplied details.
type HTTPError struct {
	Status int
	Header http.Header
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d", e.Status)
}

// Executor performs rate-limited single-shot HTTP execution with JSON
// decoding. It deliberately carries no retry loop: retry policy belongs to
// the caller, which knows which failures are worth repeating.
type Executor struct {
	logger     *zap.Logger
	rateMgr    *rate.Manager
	http       *http.Client
	carrierTag string
}

// New creates an Executor scoped to one carrier tag (used for log event
// names and metric labels).
func New(logger *zap.Logger, rateMgr *rate.Manager, httpClient *http.Client, carrierTag string) *Executor {
	return &Executor{
		logger:     logger,
		rateMgr:    rateMgr,
		http:       httpClient,
		carrierTag: carrierTag,
	}
}

// DoJSON executes req after waiting on the rate limiter, then JSON-decodes
// a 2xx response body into out. Non-2xx responses return *HTTPError with
// the body preserved; transport failures are returned unwrapped for the
// caller to classify.
func (e *Executor) DoJSON(ctx context.Context, req *http.Request, rateLimitKey string, out any) error {
	if e.rateMgr != nil {
		if err := e.rateMgr.Wait(ctx, rateLimitKey); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Warn(e.carrierTag+".http_failed",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		metrics.IncCarrierRequest(req.URL.Path, req.Method, "transport_error")
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, _ := io.ReadAll(resp.Body)
	elapsed := time.Since(start)

	metrics.IncCarrierRequest(req.URL.Path, req.Method, strconv.Itoa(resp.StatusCode))
	metrics.ObserveDuration(metrics.CarrierRequestDuration, start, req.URL.Path, req.Method)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Warn(e.carrierTag+".http_error",
			zap.Int("status", resp.StatusCode),
			zap.String("url", req.URL.String()),
			zap.Duration("latency", elapsed),
			zap.String("body", string(body)))
		return &HTTPError{Status: resp.StatusCode, Header: resp.Header, Body: body}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			e.logger.Warn(e.carrierTag+".decode_failed",
				zap.Error(err),
				zap.String("url", req.URL.String()),
				zap.String("body", string(body)))
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}

	e.logger.Debug(e.carrierTag+".http_success",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return nil
}
