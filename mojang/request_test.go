package mojang_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/alteamc/mojang/mojang"
)

var errConnReset = errors.New("connection reset by peer")

func notchResponse() (*http.Response, error) {
	return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
		"id":   notchHex,
		"name": "Notch",
	})
}

func rateLimitedResponse() (*http.Response, error) {
	return httpmock.NewJsonResponse(http.StatusTooManyRequests, map[string]any{
		"error":        "TooManyRequestsException",
		"errorMessage": "The client has sent too many requests within a certain amount of time",
	})
}

func TestClient_RateLimitRetry(t *testing.T) {
	t.Parallel()

	client, transport := newTestClient(t,
		mojang.WithMaxAttempts(3),
		mojang.WithRateLimitSleep(time.Millisecond))

	var calls atomic.Int32
	transport.RegisterResponder(http.MethodGet, lookupURL("Notch"),
		func(*http.Request) (*http.Response, error) {
			if calls.Add(1) < 3 {
				return rateLimitedResponse()
			}
			return notchResponse()
		})

	id, found, err := client.UUIDByName(context.Background(), "Notch")

	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, notchID, id)
	require.Equal(t, int32(3), calls.Load())
}

func TestClient_RateLimitExhausted(t *testing.T) {
	t.Parallel()

	client, transport := newTestClient(t,
		mojang.WithMaxAttempts(3),
		mojang.WithRateLimitSleep(time.Millisecond))

	var calls atomic.Int32
	transport.RegisterResponder(http.MethodGet, lookupURL("Notch"),
		func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			return rateLimitedResponse()
		})

	_, _, err := client.UUIDByName(context.Background(), "Notch")

	var apiErr *mojang.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	require.Equal(t, int32(3), calls.Load())
}

func TestClient_RateLimitRetryDisabled(t *testing.T) {
	t.Parallel()

	client, transport := newTestClient(t,
		mojang.WithRetryOnRateLimit(false),
		mojang.WithMaxAttempts(5))

	var calls atomic.Int32
	transport.RegisterResponder(http.MethodGet, lookupURL("Notch"),
		func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			return rateLimitedResponse()
		})

	_, _, err := client.UUIDByName(context.Background(), "Notch")

	var apiErr *mojang.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_TransientServerError(t *testing.T) {
	t.Parallel()

	client, transport := newTestClient(t, mojang.WithMaxAttempts(3))

	var calls atomic.Int32
	transport.RegisterResponder(http.MethodGet, lookupURL("Notch"),
		func(*http.Request) (*http.Response, error) {
			if calls.Add(1) == 1 {
				return httpmock.NewStringResponse(http.StatusInternalServerError, ""), nil
			}
			return notchResponse()
		})

	id, found, err := client.UUIDByName(context.Background(), "Notch")

	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, notchID, id)
	require.Equal(t, int32(2), calls.Load())
}

func TestClient_ServerErrorExhausted(t *testing.T) {
	t.Parallel()

	client, transport := newTestClient(t, mojang.WithMaxAttempts(2))

	var calls atomic.Int32
	transport.RegisterResponder(http.MethodGet, lookupURL("Notch"),
		func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			return httpmock.NewStringResponse(http.StatusBadGateway, ""), nil
		})

	_, _, err := client.UUIDByName(context.Background(), "Notch")

	var apiErr *mojang.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, int32(2), calls.Load())
}

// Client errors other than 404 are terminal on the first attempt.
func TestClient_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	client, transport := newTestClient(t, mojang.WithMaxAttempts(5))

	var calls atomic.Int32
	transport.RegisterResponder(http.MethodGet, lookupURL("Notch"),
		func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			return httpmock.NewJsonResponse(http.StatusBadRequest, map[string]any{
				"error":        "BadRequestException",
				"errorMessage": "Invalid name",
			})
		})

	_, _, err := client.UUIDByName(context.Background(), "Notch")

	var apiErr *mojang.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "Invalid name", apiErr.Detail)
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_TransportFailureRetried(t *testing.T) {
	t.Parallel()

	client, transport := newTestClient(t, mojang.WithMaxAttempts(3))

	var calls atomic.Int32
	transport.RegisterResponder(http.MethodGet, lookupURL("Notch"),
		func(*http.Request) (*http.Response, error) {
			if calls.Add(1) == 1 {
				return nil, errConnReset
			}
			return notchResponse()
		})

	_, found, err := client.UUIDByName(context.Background(), "Notch")

	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int32(2), calls.Load())
}

func TestClient_TransportFailureExhausted(t *testing.T) {
	t.Parallel()

	client, transport := newTestClient(t, mojang.WithMaxAttempts(2))
	transport.RegisterResponder(http.MethodGet, lookupURL("Notch"),
		httpmock.NewErrorResponder(errConnReset))

	_, _, err := client.UUIDByName(context.Background(), "Notch")

	var apiErr *mojang.Error
	require.ErrorAs(t, err, &apiErr)
	require.Zero(t, apiErr.Status)
	require.Contains(t, apiErr.Detail, "connection reset")
}

// A context cancelled during the rate-limit sleep aborts the call promptly
// instead of waiting the sleep out.
func TestClient_RateLimitSleepCancelled(t *testing.T) {
	t.Parallel()

	client, transport := newTestClient(t,
		mojang.WithMaxAttempts(2),
		mojang.WithRateLimitSleep(time.Minute))
	transport.RegisterResponder(http.MethodGet, lookupURL("Notch"),
		func(*http.Request) (*http.Response, error) {
			return rateLimitedResponse()
		})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := client.UUIDByName(ctx, "Notch")

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 10*time.Second)
}
