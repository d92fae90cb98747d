package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/metrics"
)

var (
	ErrMissingAPIKey = errors.New("api key is not configured")
	ErrUnsupported   = errors.New("operation not supported by provider")

	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// HTTPClientConfig bundles the HTTP client and instrumentation shared by providers.
type HTTPClientConfig struct {
	Client  *http.Client
	Metrics metrics.Recorder
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// getJSON performs a single GET through the circuit breaker and decodes the
// body into out. Requests are never retried.
func getJSON(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	name, op, endpoint string,
	values url.Values,
	out any,
) (err error) {
	if cfg.Client == nil {
		return errNoHTTPClient
	}
	if cfg.Metrics != nil {
		start := time.Now()
		defer func() { cfg.Metrics.ObserveFetch(name, op, err, time.Since(start)) }()
	}

	u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		// Handle rate limiting and server errors explicitly.
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, errServerError
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s %s: %w: %v", name, op, errCircuitOpen, err)
		}
		return fmt.Errorf("%s %s: %w", name, op, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return fmt.Errorf("unexpected result type from circuit breaker")
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", name, op, err)
	}
	return nil
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%f", v)
}
