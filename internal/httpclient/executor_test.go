package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExecutor() *Executor {
	return New(zap.NewNop(), nil, &http.Client{Timeout: 5 * time.Second}, "test")
}

func TestExecutor_DoJSON_DecodesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok","value":7}`))
	}))
	defer server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	var out struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	err = newTestExecutor().DoJSON(context.Background(), req, "key", &out)

	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
	assert.Equal(t, 7, out.Value)
}

func TestExecutor_DoJSON_NonSuccessPreservesBodyAndHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"response":{"errors":[{"code":"429","message":"slow down"}]}}`))
	}))
	defer server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	err = newTestExecutor().DoJSON(context.Background(), req, "key", nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Status)
	assert.Equal(t, "15", httpErr.Header.Get("Retry-After"))
	assert.Contains(t, string(httpErr.Body), "slow down")
}

func TestExecutor_DoJSON_DecodeFailureWrapsErrDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	var out map[string]any
	err = newTestExecutor().DoJSON(context.Background(), req, "key", &out)

	assert.ErrorIs(t, err, ErrDecode)
}

func TestExecutor_DoJSON_TransportErrorReturnedRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)

	err = newTestExecutor().DoJSON(context.Background(), req, "key", nil)

	require.Error(t, err)
	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
	assert.False(t, errors.Is(err, ErrDecode))
}

func TestExecutor_DoJSON_NilOutSkipsDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`definitely not json`))
	}))
	defer server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	assert.NoError(t, newTestExecutor().DoJSON(context.Background(), req, "key", nil))
}
