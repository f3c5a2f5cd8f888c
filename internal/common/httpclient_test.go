package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getter(url string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	}
}

func TestDoRequestSuccessSetsUserAgent(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{Client: srv.Client(), UserAgent: "drive-sensor-logger/test"}
	resp, err := DoRequest(context.Background(), cfg, NewCircuitBreaker("t"), getter(srv.URL))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "drive-sensor-logger/test", agent)
}

func TestDoRequestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusBadGateway, ErrServerError},
		{http.StatusNotFound, ErrUnexpectedStatus},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := DoRequest(context.Background(), HTTPClientConfig{Client: srv.Client()}, NewCircuitBreaker("t"), getter(srv.URL))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDoRequestSingleAttemptWithoutRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := DoRequest(context.Background(), HTTPClientConfig{Client: srv.Client()}, NewCircuitBreaker("t"), getter(srv.URL))
	require.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoRequestRetriesWithBackoff(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{
		Client:  srv.Client(),
		Backoff: BackoffConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond},
	}
	resp, err := DoRequest(context.Background(), cfg, NewCircuitBreaker("t"), getter(srv.URL))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoRequestOpensCircuit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cb := NewCircuitBreaker("t")
	cfg := HTTPClientConfig{Client: srv.Client()}

	// gobreaker's default policy trips after more than five consecutive failures.
	for i := 0; i < 6; i++ {
		_, err := DoRequest(context.Background(), cfg, cb, getter(srv.URL))
		require.ErrorIs(t, err, ErrServerError)
	}

	_, err := DoRequest(context.Background(), cfg, cb, getter(srv.URL))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(6), atomic.LoadInt32(&calls))
}

func TestDoRequestInvalidConfig(t *testing.T) {
	_, err := DoRequest(context.Background(), HTTPClientConfig{}, NewCircuitBreaker("t"), getter("http://example.invalid"))
	assert.ErrorIs(t, err, ErrNoHTTPClient)

	cfg := HTTPClientConfig{Client: http.DefaultClient, Backoff: BackoffConfig{MaxRetries: 2}}
	_, err = DoRequest(context.Background(), cfg, NewCircuitBreaker("t"), getter("http://example.invalid"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestHelpers(t *testing.T) {
	assert.True(t, HasAny("Light Rain Shower", "snow", "rain"))
	assert.False(t, HasAny("Clear", "cloud"))
	assert.Equal(t, "fallback", OrDefault("  ", "fallback"))
	assert.Equal(t, "Main St", OrDefault("Main St", "fallback"))
}
