package ups

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/parcelmesh/ups-adapter/internal/metrics"
	"github.com/parcelmesh/ups-adapter/pkg/carrier"
	"github.com/parcelmesh/ups-adapter/pkg/config"
)

const (
	// tokenExpiryBuffer is the margin before actual expiry at which a cached
	// token is treated as invalid, guarding clock skew and in-flight expiry.
	tokenExpiryBuffer = 5 * time.Minute

	// defaultTokenTTL is assumed when the token endpoint omits expires_in.
	defaultTokenTTL = time.Hour
)

// credential is the cached bearer token. Replaced wholesale on refresh,
// never mutated in place: it is either fully absent or fully valid.
type credential struct {
	accessToken string
	tokenType   string
	expiresAt   time.Time
}

func (c *credential) valid(now time.Time) bool {
	return now.Before(c.expiresAt.Add(-tokenExpiryBuffer))
}

// refreshAttempt is the single-slot pending refresh handle. Every caller
// that arrives while it is open waits on done and observes the same token
// or the same failure.
type refreshAttempt struct {
	done  chan struct{}
	token string
	err   error
}

// TokenState is a read-only snapshot of the coordinator's cache.
type TokenState struct {
	Cached    bool
	ExpiresAt time.Time
	Valid     bool
}

// TokenCoordinator owns the single cached UPS OAuth credential. It refreshes
// transparently near expiry, deduplicates concurrent refreshes through a
// single pending attempt, and supports forced refresh after a downstream
// auth rejection.
type TokenCoordinator struct {
	logger       *zap.Logger
	client       *http.Client
	tokenURL     string
	clientID     string
	clientSecret string

	mu      sync.Mutex
	cred    *credential
	pending *refreshAttempt
	// generation fences cache writes: ClearCache bumps it, and a refresh
	// commits its credential only if the generation at completion matches
	// the generation at which it started.
	generation uint64
}

// NewTokenCoordinator creates a coordinator for the configured UPS account.
func NewTokenCoordinator(logger *zap.Logger, cfg *config.Config) *TokenCoordinator {
	return &TokenCoordinator{
		logger:       logger,
		client:       &http.Client{Timeout: cfg.RequestTimeout},
		tokenURL:     cfg.UPSTokenURL,
		clientID:     cfg.UPSClientID,
		clientSecret: cfg.UPSClientSecret,
	}
}

// GetAccessToken returns the cached token when still valid, otherwise
// performs (or joins) a refresh against the token endpoint.
func (m *TokenCoordinator) GetAccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.cred != nil && m.cred.valid(time.Now()) {
		token := m.cred.accessToken
		m.mu.Unlock()
		return token, nil
	}
	attempt, started, gen := m.beginRefreshLocked()
	m.mu.Unlock()

	if started {
		m.runRefresh(ctx, attempt, gen)
	}
	return m.await(ctx, attempt)
}

// ForceRefresh discards any cached credential and obtains a fresh token.
// A refresh already in flight is joined rather than duplicated: its result
// is new regardless of who started it.
func (m *TokenCoordinator) ForceRefresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.cred = nil
	attempt, started, gen := m.beginRefreshLocked()
	m.mu.Unlock()

	if started {
		m.runRefresh(ctx, attempt, gen)
	}
	return m.await(ctx, attempt)
}

// TokenState reports whether a token is cached and still valid. No side effects.
func (m *TokenCoordinator) TokenState() TokenState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return TokenState{}
	}
	return TokenState{
		Cached:    true,
		ExpiresAt: m.cred.expiresAt,
		Valid:     m.cred.valid(time.Now()),
	}
}

// ClearCache drops the cached credential and detaches any in-flight refresh
// marker. The detached attempt still settles for callers already waiting on
// it, but the generation bump keeps its result out of the cache.
func (m *TokenCoordinator) ClearCache() {
	m.mu.Lock()
	m.cred = nil
	m.pending = nil
	m.generation++
	m.mu.Unlock()
}

// beginRefreshLocked joins the pending attempt when one exists, otherwise
// opens a new one. Caller holds mu.
func (m *TokenCoordinator) beginRefreshLocked() (attempt *refreshAttempt, started bool, gen uint64) {
	if m.pending != nil {
		return m.pending, false, 0
	}
	attempt = &refreshAttempt{done: make(chan struct{})}
	m.pending = attempt
	return attempt, true, m.generation
}

// runRefresh performs the network exchange and settles the attempt. The
// pending slot is cleared unconditionally on settlement, success or failure,
// so a later call starts fresh instead of replaying a failed attempt.
func (m *TokenCoordinator) runRefresh(ctx context.Context, attempt *refreshAttempt, gen uint64) {
	token, cred, err := m.fetchToken(ctx)

	m.mu.Lock()
	if m.pending == attempt {
		m.pending = nil
	}
	if err == nil && m.generation == gen {
		m.cred = cred
	}
	m.mu.Unlock()

	attempt.token = token
	attempt.err = err
	close(attempt.done)

	if err != nil {
		metrics.IncTokenRefresh("error")
		m.logger.Warn("ups.auth.refresh_failed", zap.Error(err))
		return
	}
	metrics.IncTokenRefresh("ok")
	m.logger.Info("ups.auth.token_refreshed",
		zap.Time("expires_at", cred.expiresAt),
		zap.String("token_type", cred.tokenType))
}

// await blocks until the attempt settles or the caller's context ends.
func (m *TokenCoordinator) await(ctx context.Context, attempt *refreshAttempt) (string, error) {
	select {
	case <-attempt.done:
		return attempt.token, attempt.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// fetchToken exchanges client credentials for a bearer token.
// All failures come back as classified errors.
func (m *TokenCoordinator) fetchToken(ctx context.Context) (string, *credential, error) {
	if m.clientID == "" || m.clientSecret == "" {
		return "", nil, carrier.NewInvalidCredentialsError(carrierName, "client id and client secret are required", nil)
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, carrier.NewAuthenticationError(carrierName, 0, "build token request", err)
	}
	req.SetBasicAuth(m.clientID, m.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		switch {
		case carrier.IsTimeout(err):
			return "", nil, carrier.NewTimeoutError(carrierName, m.client.Timeout, err)
		case carrier.IsConnectionError(err):
			return "", nil, carrier.NewNetworkError(carrierName, "token endpoint unreachable", err)
		default:
			return "", nil, carrier.NewAuthenticationError(carrierName, 0, "token request failed", err)
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", nil, carrier.NewInvalidCredentialsError(carrierName, "client credentials rejected", nil)
		}
		return "", nil, carrier.NewAuthenticationError(carrierName, resp.StatusCode, "token endpoint error", nil)
	}

	var tr UPSTokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", nil, carrier.NewAuthenticationError(carrierName, 0, "decode token response", err)
	}
	if tr.AccessToken == "" {
		return "", nil, carrier.NewAuthenticationError(carrierName, 0, "token endpoint returned empty access_token", nil)
	}

	ttl := defaultTokenTTL
	if secs, err := strconv.ParseInt(tr.ExpiresIn, 10, 64); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}

	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	cred := &credential{
		accessToken: tr.AccessToken,
		tokenType:   tokenType,
		expiresAt:   time.Now().Add(ttl),
	}
	return cred.accessToken, cred, nil
}
