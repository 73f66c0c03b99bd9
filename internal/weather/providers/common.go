package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-archive-storage/internal/metrics"
	"github.com/i474232898/weather-archive-storage/internal/weather"
)

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// newCircuitBreaker trips on transport failures and 5xx responses only; a
// 4xx from upstream is the caller's problem, not an outage.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var upstream *weather.UpstreamError
			return errors.As(err, &upstream) && upstream.StatusCode > 0 && upstream.StatusCode < 500
		},
	})
}

// doRequest executes one request through the circuit breaker and returns the
// response body. Non-2xx responses and transport failures come back as
// *weather.UpstreamError. There are no retries.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) ([]byte, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	result, err := cb.Execute(func() (interface{}, error) {
		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			metrics.UpstreamDuration.WithLabelValues(metrics.StatusClass(0)).Observe(time.Since(start).Seconds())
			return nil, &weather.UpstreamError{Err: err}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		metrics.UpstreamDuration.WithLabelValues(metrics.StatusClass(resp.StatusCode)).Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, &weather.UpstreamError{Err: fmt.Errorf("read response body: %w", err)}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &weather.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.UpstreamError{
				StatusCode: http.StatusServiceUnavailable,
				Err:        fmt.Errorf("%w: %v", errCircuitOpen, err),
			}
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}
